package common

import (
	"html/template"
	"strings"

	"github.com/rubiojr/armory/pkg/dataset"
	"github.com/rubiojr/armory/pkg/render"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// RowRenderer defines the interface for rendering result rows of a dataset mode
type RowRenderer interface {
	// Render takes a row and returns formatted HTML for display
	Render(row render.Row) template.HTML

	// CanRender checks if this renderer handles rows of the given mode
	CanRender(mode dataset.Mode) bool

	// Mode returns the dataset mode this renderer handles
	Mode() dataset.Mode
}

// Global registry for auto-registration
var globalRenderers []RowRenderer

// RegisterRenderer adds a renderer to the global registry
func RegisterRenderer(renderer RowRenderer) {
	globalRenderers = append(globalRenderers, renderer)
}

// GetRegisteredRenderers returns all registered renderers
func GetRegisteredRenderers() []RowRenderer {
	return globalRenderers
}

// TemplateData holds data passed to row templates
type TemplateData struct {
	Row render.Row
	// CopyTitle is the tooltip of the copy target.
	CopyTitle string
}

// NewTemplateData builds the data for row.
func NewTemplateData(row render.Row) TemplateData {
	return TemplateData{Row: row, CopyTitle: CopyTitle(row.Copy)}
}

// CopyTitle is the tooltip shown on a copyable value.
func CopyTitle(value string) string {
	if value == "" {
		return ""
	}
	return "Click to copy " + value
}

// GetTemplateFuncs returns common template functions used across renderers
func GetTemplateFuncs() template.FuncMap {
	return template.FuncMap{
		// Highlighted values are escaped by the render package.
		"safeHTML": func(s string) template.HTML { return template.HTML(s) },
		"title":    cases.Title(language.English).String,
		"upper":    strings.ToUpper,
		"default": func(def, val string) string {
			if val == "" {
				return def
			}
			return val
		},
	}
}
