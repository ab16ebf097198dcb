package renderers

import (
	"strings"
	"testing"

	"github.com/rubiojr/armory/pkg/dataset"
	"github.com/rubiojr/armory/pkg/render"
)

func TestRegistryRender(t *testing.T) {
	registry := GetGlobalRegistry()

	listRow := render.Row{
		Field: render.Field{Label: "gallery", Text: "Laser Rifle", HTML: `Laser <span class="mark">Rifle</span>`},
		Copy:  "0141",
		Secondary: []render.Field{
			{Label: "de", Text: "Rifle<x>", HTML: `<span class="mark">Rifle</span>&lt;x&gt;`},
		},
	}
	dictRow := render.Row{
		Field: render.Field{Label: render.LabelValue, Text: "CAB-0141", HTML: `CAB-<span class="mark">0141</span>`},
		Copy:  `w_8"x`,
	}

	tests := []struct {
		name string
		mode dataset.Mode
		row  render.Row
		want []string
	}{
		{
			name: "list",
			mode: dataset.ModeList,
			row:  listRow,
			want: []string{
				`<div class="result-key">gallery</div>`,
				`Laser <span class="mark">Rifle</span>`,
				`data-copy="0141"`,
				`title="Click to copy 0141"`,
				`<span class="result-extra-key">de</span> <span class="mark">Rifle</span>&lt;x&gt;`,
			},
		},
		{
			name: "dictionary",
			mode: dataset.ModeDictionary,
			row:  dictRow,
			want: []string{
				`<div class="result-row dictionary">`,
				`<div class="result-key">Value</div>`,
				`CAB-<span class="mark">0141</span>`,
				`data-copy="w_8&#34;x"`,
			},
		},
		{
			name: "fallback",
			mode: dataset.Mode("other"),
			row:  listRow,
			want: []string{`<div class="result-key">gallery</div>`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(registry.Render(tt.mode, tt.row))
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("missing %q in\n%s", w, got)
				}
			}
		})
	}
}

func TestGetRenderer(t *testing.T) {
	registry := GetGlobalRegistry()
	for _, mode := range []dataset.Mode{dataset.ModeList, dataset.ModeDictionary} {
		r := registry.GetRenderer(mode)
		if r == nil || r.Mode() != mode {
			t.Errorf("no renderer for %s", mode)
		}
	}
	if registry.GetRenderer("other") != nil {
		t.Error("unexpected renderer for unknown mode")
	}
}
