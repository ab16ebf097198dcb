package dictionary

import (
	_ "embed"
	"html/template"
	"strings"

	"github.com/rubiojr/armory/cmd/web/renderers/common"
	"github.com/rubiojr/armory/pkg/dataset"
	"github.com/rubiojr/armory/pkg/render"
)

//go:embed template.html
var dictionaryTemplate string

// DictionaryRenderer renders key/value rows. The key is the copy target.
type DictionaryRenderer struct {
	template *template.Template
}

func init() {
	renderer := NewDictionaryRenderer()
	if renderer != nil {
		common.RegisterRenderer(renderer)
	}
}

func NewDictionaryRenderer() *DictionaryRenderer {
	tmpl, err := template.New("dictionary").Funcs(common.GetTemplateFuncs()).Parse(dictionaryTemplate)
	if err != nil {
		return nil
	}
	return &DictionaryRenderer{template: tmpl}
}

func (r *DictionaryRenderer) Render(row render.Row) template.HTML {
	var buf strings.Builder
	if err := r.template.Execute(&buf, common.NewTemplateData(row)); err != nil {
		return template.HTML("Error rendering dictionary template")
	}
	return template.HTML(buf.String())
}

func (r *DictionaryRenderer) CanRender(mode dataset.Mode) bool {
	return mode == dataset.ModeDictionary
}

func (r *DictionaryRenderer) Mode() dataset.Mode {
	return dataset.ModeDictionary
}
