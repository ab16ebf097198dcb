package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rubiojr/armory/pkg/config"
	"github.com/rubiojr/armory/pkg/dataset"
	"github.com/rubiojr/armory/pkg/session"
	"github.com/rubiojr/armory/pkg/version"
)

const weaponsJSON = `[
	{"id": "w_0141", "gallery": "Laser Rifle", "ja": "レーザーライフル", "de": "Lasergewehr"},
	{"id": "w_0007", "en-gb": "Rifle Grenade"},
	{"id": "w_0300", "de": "Flammenwerfer", "Index": "FLAME-300"}
]`

const indexJSON = `{"w_8_special": "CAB-0141xyz", "w_9": "plain"}`

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	dir := t.TempDir()
	for name, body := range map[string]string{"list.json": weaponsJSON, "index.json": indexJSON} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
	}

	cfg := config.GetDefaultConfig()
	cfg.Search.Debounce = config.Duration{Duration: 5 * time.Millisecond}
	cfg.Tabs["broken"] = config.Tab{Label: "Broken", Path: "missing.json", Order: 3}

	srv := NewServer(session.NewLibrary(cfg, dataset.NewLoader(dir)))
	mux := http.NewServeMux()
	srv.RegisterRoutes(mux)
	ts := httptest.NewServer(CorsMiddleware(mux))
	t.Cleanup(ts.Close)
	return srv, ts
}

func getJSON(t *testing.T, url string, wantStatus int, v any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("GET %s: status %d, want %d", url, resp.StatusCode, wantStatus)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type %q", ct)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decoding: %v", err)
	}
}

func TestHandleHealth(t *testing.T) {
	_, ts := newTestServer(t)

	var health HealthResponse
	getJSON(t, ts.URL+"/health", http.StatusOK, &health)
	if health.Status != "ok" || health.Version != version.APIVersion() {
		t.Errorf("unexpected health %+v", health)
	}
}

func TestHandleTabs(t *testing.T) {
	_, ts := newTestServer(t)

	var tabs TabsResponse
	getJSON(t, ts.URL+"/api/tabs", http.StatusOK, &tabs)

	if tabs.DefaultTab != "weapons" || len(tabs.Tabs) != 3 {
		t.Fatalf("unexpected tabs %+v", tabs)
	}
	if tabs.Tabs[0].ID != "weapons" || !tabs.Tabs[0].ShowFilters || tabs.Tabs[0].Type != "list" {
		t.Errorf("weapons tab = %+v", tabs.Tabs[0])
	}
	if tabs.Tabs[1].ID != "index" || tabs.Tabs[1].ShowFilters || tabs.Tabs[1].Type != "dictionary" {
		t.Errorf("index tab = %+v", tabs.Tabs[1])
	}
	if len(tabs.Fields) != 13 || tabs.DebounceMS != 5 || tabs.ToastMS != 1400 {
		t.Errorf("fields/timings = %v %d %d", tabs.Fields, tabs.DebounceMS, tabs.ToastMS)
	}
}

func TestHandleSearch(t *testing.T) {
	_, ts := newTestServer(t)

	tests := []struct {
		name      string
		query     string
		wantRows  []string // copy values
		wantLabel string
	}{
		{"default fields", "q=rifle", []string{"0141", "0007"}, "gallery"},
		{"katakana", "q=" + url.QueryEscape("らいふる"), []string{"0141"}, "ja"},
		{"field filter", "q=gewehr&field=de", []string{"0141"}, "de"},
		{"index toggle", "q=flame&field=de&index=true", []string{"0300"}, "Index"},
		{"index off", "q=flame", nil, ""},
		{"dictionary value side", "tab=index&q=0141", []string{"w_8_special"}, "Value"},
		{"dictionary key side", "tab=index&q=W_", []string{"w_8_special", "w_9"}, "Key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp SearchResponse
			getJSON(t, ts.URL+"/api/search?"+tt.query, http.StatusOK, &resp)

			var got []string
			for _, row := range resp.Rows {
				got = append(got, row.Copy)
			}
			if strings.Join(got, ",") != strings.Join(tt.wantRows, ",") {
				t.Fatalf("rows = %v, want %v", got, tt.wantRows)
			}
			if len(tt.wantRows) == 0 {
				if !resp.Empty || resp.Message == "" {
					t.Errorf("expected placeholder page, got %+v", resp.Page)
				}
				return
			}
			if resp.Rows[0].Label != tt.wantLabel {
				t.Errorf("label = %q, want %q", resp.Rows[0].Label, tt.wantLabel)
			}
		})
	}
}

func TestHandleSearchHighlight(t *testing.T) {
	_, ts := newTestServer(t)

	var resp SearchResponse
	getJSON(t, ts.URL+"/api/search?q=rifle", http.StatusOK, &resp)
	if want := `Laser <span class="mark">Rifle</span>`; resp.Rows[0].HTML != want {
		t.Errorf("html = %q, want %q", resp.Rows[0].HTML, want)
	}
	if resp.Tab != "weapons" {
		t.Errorf("tab = %q", resp.Tab)
	}
}

func TestHandleSearchErrors(t *testing.T) {
	_, ts := newTestServer(t)

	tests := []struct {
		query  string
		status int
	}{
		{"q=x&field=klingon", http.StatusBadRequest},
		{"q=x&index=maybe", http.StatusBadRequest},
		{"q=x&tab=nope", http.StatusNotFound},
		{"q=x&tab=broken", http.StatusBadGateway},
	}
	for _, tt := range tests {
		var resp ErrorResponse
		getJSON(t, ts.URL+"/api/search?"+tt.query, tt.status, &resp)
		if resp.Error == "" || resp.Message == "" {
			t.Errorf("%s: empty error response", tt.query)
		}
	}

	var resp ErrorResponse
	getJSON(t, ts.URL+"/api/search?q=x&tab=broken", http.StatusBadGateway, &resp)
	if !strings.Contains(resp.Message, "missing.json") {
		t.Errorf("load failure should name the path: %q", resp.Message)
	}
}

func TestCorsPreflight(t *testing.T) {
	_, ts := newTestServer(t)

	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/api/search", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("preflight: %d %v", resp.StatusCode, resp.Header)
	}
}

func wsDial(t *testing.T, ts *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws"
	if query != "" {
		wsURL += "?" + query
	}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	msg := readMessage(t, conn)
	if msg.Type != LiveInit || msg.Session == "" {
		t.Fatalf("expected init message, got %+v", msg)
	}
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) LiveMessage {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var msg LiveMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

// readUntil skips messages until match accepts one.
func readUntil(t *testing.T, conn *websocket.Conn, match func(LiveMessage) bool) LiveMessage {
	t.Helper()
	for i := 0; i < 20; i++ {
		msg := readMessage(t, conn)
		if match(msg) {
			return msg
		}
	}
	t.Fatal("no matching message")
	return LiveMessage{}
}

func sendRequest(t *testing.T, conn *websocket.Conn, req LiveRequest) {
	t.Helper()
	if err := conn.WriteJSON(req); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func isResults(tab string) func(LiveMessage) bool {
	return func(m LiveMessage) bool {
		return m.Type == LiveResults && m.Update != nil && m.Update.Tab == tab
	}
}

func TestLiveSearch(t *testing.T) {
	_, ts := newTestServer(t)
	conn := wsDial(t, ts, "")

	first := readUntil(t, conn, isResults("weapons"))
	if !first.Update.Page.Empty || first.Update.Page.Message != "No results" {
		t.Fatalf("initial page = %+v", first.Update.Page)
	}

	sendRequest(t, conn, LiveRequest{Type: LiveInput, Query: "ri"})
	sendRequest(t, conn, LiveRequest{Type: LiveInput, Query: "rifle"})
	msg := readUntil(t, conn, func(m LiveMessage) bool {
		return isResults("weapons")(m) && m.Update.Page.Query == "rifle"
	})
	if got := len(msg.Update.Page.Rows); got != 2 {
		t.Fatalf("rows = %d, want 2", got)
	}
	if msg.Update.Page.Rows[0].Copy != "0141" {
		t.Errorf("first row copy = %q", msg.Update.Page.Rows[0].Copy)
	}

	sendRequest(t, conn, LiveRequest{Type: LiveSearch, Query: "lasergewehr"})
	msg = readUntil(t, conn, func(m LiveMessage) bool {
		return isResults("weapons")(m) && m.Update.Page.Query == "lasergewehr"
	})
	if !msg.Update.Page.Empty {
		t.Fatalf("de is off by default, got %+v", msg.Update.Page.Rows)
	}

	sendRequest(t, conn, LiveRequest{Type: LiveAll, On: true})
	msg = readUntil(t, conn, func(m LiveMessage) bool {
		return isResults("weapons")(m) && len(m.Update.Page.Rows) > 0
	})
	if !msg.AllOn || msg.Update.Page.Rows[0].Label != "de" {
		t.Errorf("after master toggle: all=%v rows=%+v", msg.AllOn, msg.Update.Page.Rows)
	}
}

func TestLiveTabs(t *testing.T) {
	_, ts := newTestServer(t)
	conn := wsDial(t, ts, "tab=index")

	readUntil(t, conn, isResults("index"))

	sendRequest(t, conn, LiveRequest{Type: LiveInput, Query: "0141"})
	msg := readUntil(t, conn, func(m LiveMessage) bool {
		return isResults("index")(m) && len(m.Update.Page.Rows) > 0
	})
	row := msg.Update.Page.Rows[0]
	if row.Label != "Value" || row.Copy != "w_8_special" {
		t.Errorf("dictionary row = %+v", row)
	}

	sendRequest(t, conn, LiveRequest{Type: LiveSelect, Tab: "broken"})
	msg = readUntil(t, conn, isResults("broken"))
	if !msg.Update.Page.Failed || !strings.Contains(msg.Update.Page.Message, "missing.json") {
		t.Errorf("expected failure page, got %+v", msg.Update.Page)
	}

	sendRequest(t, conn, LiveRequest{Type: LiveSelect, Tab: "nope"})
	msg = readUntil(t, conn, func(m LiveMessage) bool { return m.Type == LiveError })
	if !strings.Contains(msg.Message, "nope") {
		t.Errorf("error message = %q", msg.Message)
	}

	sendRequest(t, conn, LiveRequest{Type: LiveField, Field: "klingon", On: true})
	readUntil(t, conn, func(m LiveMessage) bool { return m.Type == LiveError })
}

func TestLiveRejectsBadParams(t *testing.T) {
	_, ts := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws?tab=nope"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatal("expected handshake failure")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %v", resp)
	}
}
