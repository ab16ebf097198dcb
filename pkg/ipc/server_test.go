package ipc

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rubiojr/armory/pkg/config"
	"github.com/rubiojr/armory/pkg/dataset"
	"github.com/rubiojr/armory/pkg/realtime"
	"github.com/rubiojr/armory/pkg/session"
	"github.com/vmihailenco/msgpack/v5"
)

func testLibrary(t *testing.T) *session.Library {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"list.json": `[
			{"id": "w_0141", "gallery": "Laser Rifle", "ja": "レーザーライフル", "de": "Lasergewehr"},
			{"id": "w_0007", "en-gb": "Rifle Grenade"}
		]`,
		"index.json": `{"w_8_special": "CAB-0141xyz", "w_9": "plain"}`,
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
	}

	cfg := config.GetDefaultConfig()
	// Inputs are only answered by the flush at end of stream.
	cfg.Search.Debounce = config.Duration{Duration: time.Hour}
	cfg.Tabs["broken"] = config.Tab{Path: "missing.json", Order: 3}
	return session.NewLibrary(cfg, dataset.NewLoader(dir))
}

// run feeds reqs to a server and returns everything it answered.
func run(t *testing.T, reqs ...Request) []Response {
	t.Helper()
	var in, out bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	for _, r := range reqs {
		if err := enc.Encode(r); err != nil {
			t.Fatal(err)
		}
	}

	srv := NewServer(testLibrary(t), &in, &out)
	if err := srv.Serve(context.Background(), ""); err != nil {
		t.Fatalf("Serve: %v", err)
	}

	var resps []Response
	dec := msgpack.NewDecoder(&out)
	for {
		var r Response
		err := dec.Decode(&r)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		resps = append(resps, r)
	}
	if len(resps) == 0 || resps[0].Status != "ready" || resps[0].Tab != "weapons" {
		t.Fatalf("expected ready announcement first, got %+v", resps)
	}
	return resps[1:]
}

func copies(r Response) string {
	var c []string
	for _, row := range r.Rows {
		c = append(c, row.Copy)
	}
	return strings.Join(c, ",")
}

func TestServeSearchAndInput(t *testing.T) {
	resps := run(t,
		Request{ID: "1", Action: ActionSearch, Query: "rifle"},
		Request{ID: "2", Action: ActionFields, Fields: []string{"de"}},
		Request{ID: "3", Action: ActionInput, Query: "ri"},
		Request{ID: "4", Action: ActionInput, Query: "gewehr"},
	)

	if len(resps) != 3 {
		t.Fatalf("got %d responses: %+v", len(resps), resps)
	}

	if resps[0].ID != "1" || copies(resps[0]) != "0141,0007" {
		t.Errorf("search response = %+v", resps[0])
	}
	if resps[0].Rows[0].Label != "gallery" || resps[0].Rows[0].Text != "Laser Rifle" {
		t.Errorf("first row = %+v", resps[0].Rows[0])
	}

	if resps[1].ID != "2" || len(resps[1].Rows) != 0 || resps[1].Message != "No results" {
		t.Errorf("fields response = %+v", resps[1])
	}

	last := resps[2]
	if last.ID != "4" || last.Query != "gewehr" || copies(last) != "0141" || last.Rows[0].Label != "de" {
		t.Errorf("debounced response = %+v", last)
	}
}

func TestServeSecondaryFields(t *testing.T) {
	resps := run(t,
		Request{ID: "f", Action: ActionFields, Fields: []string{"gallery", "de"}},
		Request{ID: "s", Action: ActionSearch, Query: "laser"},
	)
	row := resps[1].Rows[0]
	if row.Label != "gallery" || len(row.Fields) != 1 || row.Fields[0] != "de" {
		t.Errorf("row = %+v", row)
	}
}

func TestServeTabs(t *testing.T) {
	resps := run(t,
		Request{ID: "t1", Action: ActionTab, Tab: "index"},
		Request{ID: "s1", Action: ActionSearch, Query: "0141"},
		Request{ID: "t2", Action: ActionTab, Tab: "nope"},
		Request{ID: "t3", Action: ActionTab, Tab: "broken"},
	)
	if len(resps) != 4 {
		t.Fatalf("got %d responses: %+v", len(resps), resps)
	}

	if resps[0].ID != "t1" || resps[0].Tab != "index" || len(resps[0].Rows) != 0 {
		t.Errorf("tab response = %+v", resps[0])
	}
	if resps[1].Tab != "index" || copies(resps[1]) != "w_8_special" || resps[1].Rows[0].Label != "Value" {
		t.Errorf("dictionary search = %+v", resps[1])
	}
	if resps[2].ID != "t2" || !strings.Contains(resps[2].Error, "nope") {
		t.Errorf("unknown tab = %+v", resps[2])
	}
	if resps[3].ID != "t3" || !strings.Contains(resps[3].Error, "missing.json") {
		t.Errorf("broken tab = %+v", resps[3])
	}
}

func TestServeBadRequests(t *testing.T) {
	resps := run(t,
		Request{ID: "a", Action: "explode"},
		Request{ID: "b", Action: ActionFields, Fields: []string{"klingon"}},
	)
	if len(resps) != 2 {
		t.Fatalf("got %+v", resps)
	}
	for _, r := range resps {
		if r.Error == "" {
			t.Errorf("expected error for %s", r.ID)
		}
	}
}

// sealedWriter counts writes that arrive after seal.
type sealedWriter struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	sealed bool
	late   int
}

func (w *sealedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.sealed {
		w.late++
		return len(p), nil
	}
	return w.buf.Write(p)
}

func (w *sealedWriter) seal() {
	w.mu.Lock()
	w.sealed = true
	w.mu.Unlock()
}

func (w *sealedWriter) lateWrites() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.late
}

func TestServeNoWritesAfterReturn(t *testing.T) {
	lib := testLibrary(t)
	pr, pw := io.Pipe()
	out := &sealedWriter{}
	srv := NewServer(lib, pr, out)

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(context.Background(), "") }()

	if err := msgpack.NewEncoder(pw).Encode(Request{ID: "i", Action: ActionInput, Query: "rifle"}); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 8; i++ {
		lib.Hub().Broadcast(realtime.Reloaded("weapons", "list.json", 2))
	}
	pw.Close()

	if err := <-errc; err != nil {
		t.Fatalf("Serve: %v", err)
	}
	out.seal()
	if n := lib.Hub().Size(); n != 0 {
		t.Errorf("hub still has %d listeners", n)
	}

	lib.Hub().Broadcast(realtime.Reloaded("weapons", "list.json", 2))
	time.Sleep(100 * time.Millisecond)
	if n := out.lateWrites(); n != 0 {
		t.Errorf("%d writes after Serve returned", n)
	}
}
