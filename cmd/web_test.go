package cmd

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func setupTestWebServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(NewWebServer(testLibrary(t)).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, string(body)
}

func TestHomePage(t *testing.T) {
	ts := setupTestWebServer(t)

	tests := []struct {
		name    string
		query   string
		want    []string
		notWant []string
	}{
		{
			name:  "empty query",
			query: "",
			want: []string{
				`<title>Weapons - armory</title>`,
				`<a class="tab active" data-tab="weapons"`,
				`<div class="empty">No results</div>`,
				`data-debounce="10"`,
				`data-toast="1400"`,
			},
		},
		{
			name:  "list results",
			query: "?q=rifle",
			want: []string{
				`Laser <span class="mark">Rifle</span>`,
				`data-copy="0141"`,
				`data-copy="0007"`,
				`value="rifle"`,
			},
		},
		{
			name:  "field toggles from the form",
			query: "?q=flammen&field=de",
			want: []string{
				`<span class="mark">Flammen</span>werfer &lt;x&gt;`,
				`value="de" data-key="de" checked><span>de</span>`,
			},
			notWant: []string{`value="gallery" data-key="gallery" checked`},
		},
		{
			name:  "dictionary tab hides filters",
			query: "?tab=index&q=0141",
			want: []string{
				`<a class="tab active" data-tab="index"`,
				`<section id="filters" class="filters" hidden>`,
				`<div class="result-key">Value</div>`,
				`data-copy="w_8_special"`,
			},
		},
		{
			name:  "load failure inline",
			query: "?tab=broken&q=x",
			want:  []string{`<div class="empty error">failed to load`, `missing.json`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := get(t, ts.URL+"/"+tt.query)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status %d", resp.StatusCode)
			}
			for _, w := range tt.want {
				if !strings.Contains(body, w) {
					t.Errorf("missing %q", w)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(body, w) {
					t.Errorf("unexpected %q", w)
				}
			}
		})
	}
}

func TestHomePageErrors(t *testing.T) {
	ts := setupTestWebServer(t)

	for path, status := range map[string]int{
		"/?tab=nope":         http.StatusNotFound,
		"/?field=klingon":    http.StatusBadRequest,
		"/elsewhere":         http.StatusNotFound,
		"/static/nope.css":   http.StatusNotFound,
		"/api/search?tab=no": http.StatusNotFound,
	} {
		resp, _ := get(t, ts.URL+path)
		if resp.StatusCode != status {
			t.Errorf("%s: status %d, want %d", path, resp.StatusCode, status)
		}
	}
}

func TestStaticAssets(t *testing.T) {
	ts := setupTestWebServer(t)

	for path, ctype := range map[string]string{
		"/static/app.js":    "application/javascript",
		"/static/style.css": "text/css",
	} {
		resp, body := get(t, ts.URL+path)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: status %d", path, resp.StatusCode)
		}
		if got := resp.Header.Get("Content-Type"); got != ctype {
			t.Errorf("%s: content type %q", path, got)
		}
		if len(body) == 0 {
			t.Errorf("%s: empty body", path)
		}
	}
}
