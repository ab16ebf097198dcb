// Package render turns search results into display rows. It produces
// escaped HTML fragments and plain values; writing them to a page, terminal
// or IPC client is left to the caller.
package render

import (
	"github.com/rubiojr/armory/pkg/dataset"
	"github.com/rubiojr/armory/pkg/index"
	"github.com/rubiojr/armory/pkg/search"
)

// NoResults is shown when a query matched nothing.
const NoResults = "No results"

// Dictionary row labels.
const (
	LabelKey   = "Key"
	LabelValue = "Value"
)

// Field is a labelled, highlighted value.
type Field struct {
	Label string `json:"label"`
	Text  string `json:"text"`
	HTML  string `json:"html"`
}

// Row is one rendered result.
type Row struct {
	Field
	// Copy is what a click on the row identifier copies: the digits of the
	// record id in list mode, the key in dictionary mode.
	Copy string `json:"copy"`
	// Secondary holds the remaining matched fields (list mode).
	Secondary []Field `json:"secondary,omitempty"`
}

// Page is a rendered result list, an empty placeholder or a load failure.
type Page struct {
	Query   string       `json:"query"`
	Mode    dataset.Mode `json:"mode"`
	Rows    []Row        `json:"rows"`
	Empty   bool         `json:"empty"`
	Failed  bool         `json:"failed"`
	Message string       `json:"message,omitempty"`
}

// Render builds the page for results of query.
func Render(results []search.Result, query string, mode dataset.Mode) Page {
	page := Page{Query: query, Mode: mode, Rows: []Row{}}
	if len(results) == 0 {
		page.Empty = true
		page.Message = NoResults
		return page
	}

	for _, r := range results {
		if len(r.Matches) == 0 {
			continue
		}
		if mode == dataset.ModeDictionary {
			page.Rows = append(page.Rows, dictionaryRow(r, query))
		} else {
			page.Rows = append(page.Rows, listRow(r, query))
		}
	}
	return page
}

// Failure renders a load error inline in place of results.
func Failure(query string, mode dataset.Mode, err error) Page {
	return Page{
		Query:   query,
		Mode:    mode,
		Rows:    []Row{},
		Failed:  true,
		Message: err.Error(),
	}
}

// PrimaryMatch picks the match that represents a list result:
// gallery, then ja, then en-gb, then whatever matched first.
func PrimaryMatch(matches []search.Match) (search.Match, int) {
	for _, field := range index.PriorityFields {
		for i, m := range matches {
			if m.Field == field {
				return m, i
			}
		}
	}
	return matches[0], 0
}

func listRow(r search.Result, query string) Row {
	primary, at := PrimaryMatch(r.Matches)
	row := Row{
		Field: Field{
			Label: primary.Field,
			Text:  primary.Value,
			HTML:  Highlight(primary.Value, query),
		},
		Copy: IDDigits(r.Record.Get(index.FieldID)),
	}
	for i, m := range r.Matches {
		if i == at {
			continue
		}
		row.Secondary = append(row.Secondary, Field{
			Label: m.Field,
			Text:  m.Value,
			HTML:  Highlight(m.Value, query),
		})
	}
	return row
}

func dictionaryRow(r search.Result, query string) Row {
	label := LabelValue
	if r.Matches[0].Field == search.SideKey {
		label = LabelKey
	}
	value := r.Record.Get(dataset.ValueField)
	return Row{
		Field: Field{
			Label: label,
			Text:  value,
			HTML:  Highlight(value, query),
		},
		Copy: r.Matches[0].Value,
	}
}

// IDDigits returns the first run of ASCII digits in id, or "".
func IDDigits(id string) string {
	start := -1
	for i := 0; i < len(id); i++ {
		isDigit := id[i] >= '0' && id[i] <= '9'
		switch {
		case isDigit && start < 0:
			start = i
		case !isDigit && start >= 0:
			return id[start:i]
		}
	}
	if start < 0 {
		return ""
	}
	return id[start:]
}
