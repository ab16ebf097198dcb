package defaultrenderer

import (
	_ "embed"
	"html/template"
	"strings"

	"github.com/rubiojr/armory/cmd/web/renderers/common"
	"github.com/rubiojr/armory/pkg/dataset"
	"github.com/rubiojr/armory/pkg/render"
)

//go:embed template.html
var defaultTemplate string

// DefaultRenderer renders a label and the highlighted value of any row
type DefaultRenderer struct {
	template *template.Template
}

// Note: Default renderer is not auto-registered - it's used as a fallback in the registry

func NewDefaultRenderer() *DefaultRenderer {
	tmpl, err := template.New("default").Funcs(common.GetTemplateFuncs()).Parse(defaultTemplate)
	if err != nil {
		return nil
	}

	return &DefaultRenderer{
		template: tmpl,
	}
}

func (r *DefaultRenderer) Render(row render.Row) template.HTML {
	var buf strings.Builder
	if err := r.template.Execute(&buf, common.NewTemplateData(row)); err != nil {
		return template.HTML("Error rendering default template")
	}
	return template.HTML(buf.String())
}

// CanRender returns true for any mode (this is the fallback renderer)
func (r *DefaultRenderer) CanRender(mode dataset.Mode) bool {
	return true
}

func (r *DefaultRenderer) Mode() dataset.Mode {
	return ""
}
