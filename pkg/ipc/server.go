package ipc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/rubiojr/armory/pkg/index"
	"github.com/rubiojr/armory/pkg/log"
	"github.com/rubiojr/armory/pkg/render"
	"github.com/rubiojr/armory/pkg/search"
	"github.com/rubiojr/armory/pkg/session"
	"github.com/vmihailenco/msgpack/v5"
)

// Server answers requests read from r on w using one search session.
type Server struct {
	library *session.Library
	dec     *msgpack.Decoder

	wmu sync.Mutex
	enc *msgpack.Encoder

	mu      sync.Mutex
	lastID  string
	closed  bool
	session *session.Session
}

func NewServer(library *session.Library, r io.Reader, w io.Writer) *Server {
	s := &Server{
		library: library,
		dec:     msgpack.NewDecoder(r),
		enc:     msgpack.NewEncoder(w),
	}
	s.session = session.New(library.Config(), library, s.deliver)
	return s
}

// Serve selects tab, announces readiness and handles requests until the
// input ends. A pending debounced input is answered before returning, and
// nothing is written once Serve has returned.
func (s *Server) Serve(ctx context.Context, tab string) error {
	logger := log.ForService("ipc")
	defer s.session.Close()
	defer s.close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := s.session.SelectTab(ctx, tab); err != nil {
		return fmt.Errorf("selecting tab: %w", err)
	}
	current, _ := s.session.Tab()
	s.send(Response{Status: "ready", Tab: current, Rows: []Row{}})

	hubID, events := s.library.Hub().Register()
	eventsDone := make(chan struct{})
	go func() {
		defer close(eventsDone)
		for ev := range events {
			s.session.HandleEvent(ctx, ev)
		}
	}()
	defer func() {
		s.close()
		cancel()
		s.library.Hub().Unregister(hubID)
		<-eventsDone
	}()

	for {
		var req Request
		if err := s.dec.Decode(&req); err != nil {
			s.session.Flush()
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("decoding request: %w", err)
		}
		logger.Debugf("request %s: %s %q", req.ID, req.Action, req.Query)
		s.handle(ctx, req)
	}
}

func (s *Server) handle(ctx context.Context, req Request) {
	switch req.Action {
	case ActionInput:
		s.setLastID(req.ID)
		s.session.Input(req.Query)
	case ActionSearch:
		s.send(s.response(req.ID, s.session.Search(req.Query)))
	case ActionTab:
		s.setLastID(req.ID)
		if err := s.session.SelectTab(ctx, req.Tab); err != nil && !errors.Is(err, session.ErrSuperseded) {
			s.sendError(req.ID, err)
		}
	case ActionFields:
		fields := req.Fields
		for _, f := range fields {
			if !index.IsToggle(f) {
				s.sendError(req.ID, fmt.Errorf("unknown field %q", f))
				return
			}
		}
		opts := search.NewOptions(fields...)
		if req.Index != nil {
			opts = opts.With(index.FieldIndex, *req.Index)
		}
		s.session.SetFields(opts.List())
		s.send(s.response(req.ID, s.session.Search(s.session.Query())))
	default:
		s.sendError(req.ID, fmt.Errorf("unknown action %q", req.Action))
	}
}

func (s *Server) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (s *Server) setLastID(id string) {
	s.mu.Lock()
	s.lastID = id
	s.mu.Unlock()
}

// deliver answers asynchronous updates under the latest input or tab
// request. Updates before the first such request are dropped.
func (s *Server) deliver(u session.Update) {
	s.mu.Lock()
	id, closed := s.lastID, s.closed
	s.mu.Unlock()
	if id == "" || closed {
		return
	}
	s.send(s.response(id, u))
}

func (s *Server) response(id string, u session.Update) Response {
	resp := Response{ID: id, Tab: u.Tab, Query: u.Page.Query, Rows: []Row{}}
	switch {
	case u.Page.Failed:
		resp.Error = u.Page.Message
	case u.Page.Empty:
		resp.Message = u.Page.Message
	}
	for _, r := range u.Page.Rows {
		resp.Rows = append(resp.Rows, toRow(r))
	}
	return resp
}

func toRow(r render.Row) Row {
	row := Row{Label: r.Label, Text: r.Text, Copy: r.Copy}
	for _, f := range r.Secondary {
		row.Fields = append(row.Fields, f.Label)
	}
	return row
}

func (s *Server) sendError(id string, err error) {
	s.send(Response{ID: id, Rows: []Row{}, Error: err.Error()})
}

func (s *Server) send(resp Response) {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	if err := s.enc.Encode(resp); err != nil {
		log.ForService("ipc").Errorf("encoding response %s: %v", resp.ID, err)
	}
}
