package list

import (
	_ "embed"
	"html/template"
	"strings"

	"github.com/rubiojr/armory/cmd/web/renderers/common"
	"github.com/rubiojr/armory/pkg/dataset"
	"github.com/rubiojr/armory/pkg/render"
)

//go:embed template.html
var listTemplate string

// ListRenderer renders weapon list rows: the matched field, the highlighted
// name, the copyable id digits and any other matched fields.
type ListRenderer struct {
	template *template.Template
}

func init() {
	renderer := NewListRenderer()
	if renderer != nil {
		common.RegisterRenderer(renderer)
	}
}

func NewListRenderer() *ListRenderer {
	tmpl, err := template.New("list").Funcs(common.GetTemplateFuncs()).Parse(listTemplate)
	if err != nil {
		return nil
	}
	return &ListRenderer{template: tmpl}
}

func (r *ListRenderer) Render(row render.Row) template.HTML {
	var buf strings.Builder
	if err := r.template.Execute(&buf, common.NewTemplateData(row)); err != nil {
		return template.HTML("Error rendering list template")
	}
	return template.HTML(buf.String())
}

func (r *ListRenderer) CanRender(mode dataset.Mode) bool {
	return mode == dataset.ModeList
}

func (r *ListRenderer) Mode() dataset.Mode {
	return dataset.ModeList
}
