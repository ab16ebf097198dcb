package search

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rubiojr/armory/pkg/index"
)

// Params holds the parameters of a search request shared by the web UI,
// the JSON API and the IPC server.
type Params struct {
	// Query is the raw text typed by the user.
	Query string

	// Tab selects the dataset. Empty means the configured default tab.
	Tab string

	// Fields lists the enabled fields. Nil means "use the defaults"; a
	// field parameter with no names yields an empty, non-nil list.
	Fields []string

	// Index overrides the Index toggle when set.
	Index *bool
}

// ParseParams parses HTTP query parameters.
//
// Supported parameters:
//   - q: query text
//   - tab: tab identifier
//   - field: enabled field, repeatable, also accepts comma separated lists;
//     an empty value disables every field
//   - index: "true"/"false", toggles the Index field
//
// Unknown field names and malformed booleans are errors.
func ParseParams(values map[string][]string) (Params, error) {
	var params Params

	if q := values["q"]; len(q) > 0 {
		params.Query = q[0]
	}
	if tab := values["tab"]; len(tab) > 0 {
		params.Tab = strings.TrimSpace(tab[0])
	}

	raws, ok := values["field"]
	if ok {
		params.Fields = []string{}
	}
	for _, raw := range raws {
		for _, f := range strings.Split(raw, ",") {
			f = strings.TrimSpace(f)
			if f == "" {
				continue
			}
			if !index.IsToggle(f) {
				return params, fmt.Errorf("unknown field %q", f)
			}
			params.Fields = append(params.Fields, f)
		}
	}

	if idx := values["index"]; len(idx) > 0 && idx[0] != "" {
		on, err := strconv.ParseBool(idx[0])
		if err != nil {
			return params, fmt.Errorf("invalid index flag %q: %w", idx[0], err)
		}
		params.Index = &on
	}

	return params, nil
}

// Options resolves the enabled fields, falling back to defaults when the
// request named none.
func (p Params) Options(defaults []string) Options {
	fields := p.Fields
	if fields == nil {
		fields = defaults
	}
	opts := NewOptions(fields...)
	if p.Index != nil {
		opts = opts.With(index.FieldIndex, *p.Index)
	}
	return opts
}
