package renderers

import (
	"html/template"

	"github.com/rubiojr/armory/cmd/web/renderers/common"
	defaultrenderer "github.com/rubiojr/armory/cmd/web/renderers/default"
	"github.com/rubiojr/armory/pkg/dataset"
	"github.com/rubiojr/armory/pkg/render"
)

// RowRenderer defines the interface for rendering result rows (re-exported for convenience)
type RowRenderer = common.RowRenderer

// TemplateData holds data passed to row templates (re-exported for convenience)
type TemplateData = common.TemplateData

// RendererRegistry manages all available row renderers
type RendererRegistry struct {
	renderers       []RowRenderer
	defaultRenderer RowRenderer
}

// NewRendererRegistry creates a new empty renderer registry
func NewRendererRegistry() *RendererRegistry {
	return &RendererRegistry{
		renderers:       make([]RowRenderer, 0),
		defaultRenderer: defaultrenderer.NewDefaultRenderer(),
	}
}

// GetGlobalRegistry returns the global registry with all auto-registered renderers
func GetGlobalRegistry() *RendererRegistry {
	registry := NewRendererRegistry()
	for _, renderer := range common.GetRegisteredRenderers() {
		registry.Register(renderer)
	}
	return registry
}

// Register adds a new renderer to this registry
func (r *RendererRegistry) Register(renderer RowRenderer) {
	r.renderers = append(r.renderers, renderer)
}

// Render finds the renderer for mode and renders row with it
func (r *RendererRegistry) Render(mode dataset.Mode, row render.Row) template.HTML {
	if renderer := r.GetRenderer(mode); renderer != nil {
		return renderer.Render(row)
	}

	if r.defaultRenderer != nil {
		return r.defaultRenderer.Render(row)
	}

	return template.HTML("Error: No renderer found for row")
}

// GetRenderer finds the renderer registered for mode
func (r *RendererRegistry) GetRenderer(mode dataset.Mode) RowRenderer {
	for _, renderer := range r.renderers {
		if renderer.CanRender(mode) {
			return renderer
		}
	}
	return nil
}
