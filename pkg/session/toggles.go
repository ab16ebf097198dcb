package session

import (
	"fmt"

	"github.com/rubiojr/armory/pkg/index"
	"github.com/rubiojr/armory/pkg/search"
)

// Toggles is the on/off state of every searchable field plus the master
// switch derived from them. It is not safe for concurrent use.
type Toggles struct {
	on map[string]bool
}

// ToggleState is one field and whether it is on.
type ToggleState struct {
	Field string `json:"field"`
	On    bool   `json:"on"`
}

// NewToggles switches on the given fields and everything else off.
func NewToggles(defaults []string) *Toggles {
	t := &Toggles{on: make(map[string]bool)}
	for _, f := range defaults {
		if index.IsToggle(f) {
			t.on[f] = true
		}
	}
	return t
}

// Set switches a single field.
func (t *Toggles) Set(field string, on bool) error {
	if !index.IsToggle(field) {
		return fmt.Errorf("unknown field %q", field)
	}
	t.on[field] = on
	return nil
}

// SetAll is the master toggle: every field, Index included, follows it.
func (t *Toggles) SetAll(on bool) {
	for _, f := range index.ToggleFields() {
		t.on[f] = on
	}
}

// AllOn is the master toggle state.
func (t *Toggles) AllOn() bool {
	for _, f := range index.ToggleFields() {
		if !t.on[f] {
			return false
		}
	}
	return true
}

func (t *Toggles) Enabled(field string) bool {
	return t.on[field]
}

// Options returns the search options for the current state.
func (t *Toggles) Options() search.Options {
	var fields []string
	for f, on := range t.on {
		if on {
			fields = append(fields, f)
		}
	}
	return search.NewOptions(fields...)
}

// State lists every toggle in display order.
func (t *Toggles) State() []ToggleState {
	fields := index.ToggleFields()
	out := make([]ToggleState, len(fields))
	for i, f := range fields {
		out[i] = ToggleState{Field: f, On: t.on[f]}
	}
	return out
}
