package api

import (
	"time"

	"github.com/rubiojr/armory/pkg/render"
	"github.com/rubiojr/armory/pkg/session"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

type TabResponse struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Type        string `json:"type"`
	ShowFilters bool   `json:"show_filters"`
}

type TabsResponse struct {
	Tabs          []TabResponse `json:"tabs"`
	DefaultTab    string        `json:"default_tab"`
	Fields        []string      `json:"fields"`
	DefaultFields []string      `json:"default_fields"`
	DebounceMS    int64         `json:"debounce_ms"`
	ToastMS       int64         `json:"toast_ms"`
}

type SearchResponse struct {
	Tab    string   `json:"tab"`
	Fields []string `json:"fields"`
	render.Page
}

// Live protocol message types.
const (
	LiveInit    = "init"
	LiveResults = "results"
	LiveError   = "error"
	LiveReload  = "reload"

	LiveSelect = "select"
	LiveInput  = "input"
	LiveSearch = "search"
	LiveField  = "field"
	LiveAll    = "all"
	LiveClear  = "clear"
)

// LiveRequest is sent by the browser over the live socket.
type LiveRequest struct {
	Type  string `json:"type"`
	Tab   string `json:"tab,omitempty"`
	Query string `json:"q,omitempty"`
	Field string `json:"field,omitempty"`
	On    bool   `json:"on,omitempty"`
}

// LiveMessage is pushed to the browser.
type LiveMessage struct {
	Type    string                `json:"type"`
	Session string                `json:"session,omitempty"`
	Update  *session.Update       `json:"update,omitempty"`
	Toggles []session.ToggleState `json:"toggles,omitempty"`
	AllOn   bool                  `json:"all_on"`
	Message string                `json:"message,omitempty"`
}
