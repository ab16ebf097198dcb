package types

import (
	"github.com/rubiojr/armory/pkg/render"
	"github.com/rubiojr/armory/pkg/session"
)

// PageData represents data passed to templates
type PageData struct {
	Title       string
	Tabs        []TabInfo
	ActiveTab   string
	Mode        string
	ShowFilters bool
	Toggles     []session.ToggleState
	AllOn       bool
	Page        render.Page
	Rows        []RenderedRow
	DebounceMS  int64
	ToastMS     int64
	Version     string // Application version (for footer display)
}

// TabInfo represents a tab in the tab bar
type TabInfo struct {
	ID     string
	Label  string
	Active bool
}

// RenderedRow is a result row after the mode renderer produced its markup.
type RenderedRow struct {
	HTML string
}
