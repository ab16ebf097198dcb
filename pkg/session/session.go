// Package session holds the state of one interactive search: the selected
// tab, the field toggles, the engine for the tab and the pending debounced
// search. A terminal REPL, a websocket connection or an IPC client each own
// one Session.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rubiojr/armory/pkg/config"
	"github.com/rubiojr/armory/pkg/dataset"
	"github.com/rubiojr/armory/pkg/debounce"
	"github.com/rubiojr/armory/pkg/log"
	"github.com/rubiojr/armory/pkg/realtime"
	"github.com/rubiojr/armory/pkg/render"
	"github.com/rubiojr/armory/pkg/search"
)

// ErrSuperseded is returned by a tab load that finished after another tab
// was selected. Its result is discarded.
var ErrSuperseded = errors.New("tab selection superseded")

// Update is a rendered page for the session's tab.
type Update struct {
	Session string      `json:"session"`
	Tab     string      `json:"tab"`
	Seq     uint64      `json:"seq"`
	Page    render.Page `json:"page"`
}

// Sink receives updates produced asynchronously (debounced searches and
// dataset reloads) as well as tab selections.
type Sink func(Update)

type Session struct {
	id     string
	cfg    *config.Config
	loader Loader
	sink   Sink
	deb    *debounce.Debouncer

	mu      sync.Mutex
	tab     string
	toggles *Toggles
	engine  *search.Engine
	loadErr error
	query   string
	gen     uint64
	cancel  context.CancelFunc
	seq     uint64
}

// New creates a session with the configured default fields and no tab
// selected. sink may be nil.
func New(cfg *config.Config, loader Loader, sink Sink) *Session {
	return &Session{
		id:      uuid.NewString(),
		cfg:     cfg,
		loader:  loader,
		sink:    sink,
		deb:     debounce.New(cfg.Search.Debounce.Duration),
		toggles: NewToggles(cfg.Search.DefaultFields),
	}
}

func (s *Session) ID() string {
	return s.id
}

// Tab returns the selected tab.
func (s *Session) Tab() (string, config.Tab) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tab, s.cfg.Tabs[s.tab]
}

// Query returns the current query text.
func (s *Session) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Toggles returns the field states and the master toggle.
func (s *Session) Toggles() ([]ToggleState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.toggles.State(), s.toggles.AllOn()
}

// Options returns the search options for the current toggles.
func (s *Session) Options() search.Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.toggles.Options()
}

// SelectTab switches to tab, clears the query and loads the tab's engine.
// A load still running for a previous selection is cancelled, and its result
// ignored if it completes anyway. Load failures are rendered, not returned.
func (s *Session) SelectTab(ctx context.Context, tab string) error {
	id, _, err := s.cfg.GetTab(tab)
	if err != nil {
		return err
	}
	s.deb.Stop()

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	gen := s.gen
	loadCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.tab = id
	s.query = ""
	s.engine = nil
	s.loadErr = nil
	s.mu.Unlock()

	return s.load(loadCtx, cancel, gen, id)
}

// Reload fetches the engine for the current tab again, keeping the query.
func (s *Session) Reload(ctx context.Context) error {
	s.mu.Lock()
	if s.tab == "" {
		s.mu.Unlock()
		return nil
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	gen := s.gen
	loadCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	id := s.tab
	s.mu.Unlock()

	return s.load(loadCtx, cancel, gen, id)
}

func (s *Session) load(ctx context.Context, cancel context.CancelFunc, gen uint64, tab string) error {
	defer cancel()
	logger := log.ForService("session")

	start := time.Now()
	engine, err := s.loader.Engine(ctx, tab)

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		logger.Debugf("%s: discarding load of %s finished after %s", s.id, tab, time.Since(start))
		return ErrSuperseded
	}
	s.cancel = nil
	s.engine, s.loadErr = engine, err
	s.mu.Unlock()

	if err != nil {
		logger.Warnf("%s: tab %s: %v", s.id, tab, err)
	}
	s.emit()
	return nil
}

// Search runs query immediately and returns the rendered update. Nothing
// is sent to the sink.
func (s *Session) Search(query string) Update {
	s.mu.Lock()
	s.query = query
	s.mu.Unlock()
	return s.current()
}

// Input records query and schedules a debounced search whose update goes to
// the sink. Only the last input within the debounce window is searched.
func (s *Session) Input(query string) {
	s.mu.Lock()
	s.query = query
	s.mu.Unlock()
	s.Refresh()
}

// Refresh schedules a debounced search of the current query.
func (s *Session) Refresh() {
	s.deb.Schedule(s.emit)
}

// Flush runs a pending debounced search now.
func (s *Session) Flush() bool {
	return s.deb.Flush()
}

// Clear empties the query and emits the resulting page right away.
func (s *Session) Clear() {
	s.deb.Stop()
	s.mu.Lock()
	s.query = ""
	s.mu.Unlock()
	s.emit()
}

// SetField switches one field toggle and refreshes the results.
func (s *Session) SetField(field string, on bool) error {
	s.mu.Lock()
	err := s.toggles.Set(field, on)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.Refresh()
	return nil
}

// SetAll drives the master toggle and refreshes the results.
func (s *Session) SetAll(on bool) {
	s.mu.Lock()
	s.toggles.SetAll(on)
	s.mu.Unlock()
	s.Refresh()
}

// SetFields replaces the toggles with exactly fields.
func (s *Session) SetFields(fields []string) {
	s.mu.Lock()
	s.toggles = NewToggles(fields)
	s.mu.Unlock()
}

// HandleEvent reloads the engine when ev concerns the selected tab.
func (s *Session) HandleEvent(ctx context.Context, ev realtime.DatasetEvent) {
	tab, _ := s.Tab()
	if ev.Tab != tab {
		return
	}
	if err := s.Reload(ctx); err != nil && !errors.Is(err, ErrSuperseded) {
		log.ForService("session").Warnf("%s: reloading %s: %v", s.id, tab, err)
	}
}

// Close cancels pending work.
func (s *Session) Close() {
	s.deb.Stop()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++
}

// current renders the current query against the current engine.
func (s *Session) current() Update {
	s.mu.Lock()
	tab := s.tab
	mode := s.cfg.Tabs[tab].Mode()
	engine, loadErr := s.engine, s.loadErr
	query := s.query
	opts := s.toggles.Options()
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	upd := Update{Session: s.id, Tab: tab, Seq: seq}
	if loadErr != nil {
		upd.Page = render.Failure(query, mode, loadErr)
		return upd
	}
	results := engine.Search(query, opts)
	upd.Page = render.Render(results, query, mode)
	return upd
}

func (s *Session) emit() {
	upd := s.current()
	if s.sink != nil {
		s.sink(upd)
	}
}

// Mode returns the dataset mode of the selected tab.
func (s *Session) Mode() dataset.Mode {
	_, tab := s.Tab()
	return tab.Mode()
}
