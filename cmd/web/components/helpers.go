package components

import (
	"net/url"

	"github.com/rubiojr/armory/pkg/index"
	"github.com/rubiojr/armory/pkg/render"
)

// TabURL links to tab, keeping the current query.
func TabURL(tab, query string) string {
	v := url.Values{}
	v.Set("tab", tab)
	if query != "" {
		v.Set("q", query)
	}
	return "/?" + v.Encode()
}

// FieldLabel is the text shown next to a field toggle.
func FieldLabel(field string) string {
	if field == index.FieldIndex {
		return "Index"
	}
	return field
}

// Placeholder is the message shown when a page has no rows.
func Placeholder(page render.Page) string {
	if page.Message == "" {
		return render.NoResults
	}
	return page.Message
}
