package search

import (
	"github.com/rubiojr/armory/pkg/index"
)

// Options is the set of fields a query may match. The zero value enables
// nothing.
type Options struct {
	fields map[string]bool
}

// NewOptions enables the given fields. Unknown names are ignored.
func NewOptions(fields ...string) Options {
	o := Options{fields: make(map[string]bool, len(fields))}
	for _, f := range fields {
		if index.IsToggle(f) {
			o.fields[f] = true
		}
	}
	return o
}

// AllFields enables every toggleable field, Index included.
func AllFields() Options {
	return NewOptions(index.ToggleFields()...)
}

// Enabled reports whether field is searched.
func (o Options) Enabled(field string) bool {
	return o.fields[field]
}

// With returns a copy of o with field switched on or off.
func (o Options) With(field string, on bool) Options {
	next := NewOptions(o.List()...)
	if on && index.IsToggle(field) {
		next.fields[field] = true
	} else {
		delete(next.fields, field)
	}
	return next
}

// List returns the enabled fields in toggle order.
func (o Options) List() []string {
	var out []string
	for _, f := range index.ToggleFields() {
		if o.fields[f] {
			out = append(out, f)
		}
	}
	return out
}
