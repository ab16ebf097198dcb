package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rubiojr/armory/pkg/log"
	"github.com/rubiojr/armory/pkg/realtime"
	"github.com/rubiojr/armory/pkg/search"
	"github.com/rubiojr/armory/pkg/session"
)

const writeTimeout = 10 * time.Second

// HandleLive upgrades to a websocket and runs one search session over it.
// Keystrokes arrive as "input" requests and are debounced server side;
// results, reload notices and errors are pushed back as they happen.
//
// Query parameters tab and field pick the initial tab and toggles.
func (s *Server) HandleLive(w http.ResponseWriter, r *http.Request) {
	logger := log.ForService("live")

	params, err := search.ParseParams(r.URL.Query())
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid parameters", err.Error())
		return
	}
	cfg := s.library.Config()
	if _, _, err := cfg.GetTab(params.Tab); err != nil {
		s.writeError(w, http.StatusNotFound, "Tab not found", err.Error())
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warnf("upgrade: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := make(chan LiveMessage, 16)
	send := func(m LiveMessage) {
		select {
		case out <- m:
		case <-ctx.Done():
		}
	}

	var sess *session.Session
	sess = session.New(cfg, s.library, func(u session.Update) {
		toggles, all := sess.Toggles()
		send(LiveMessage{Type: LiveResults, Update: &u, Toggles: toggles, AllOn: all})
	})
	defer sess.Close()
	sess.SetFields(params.Options(cfg.Search.DefaultFields).List())

	writerDone := make(chan struct{})
	go s.liveWriter(ctx, cancel, conn, out, writerDone)

	hubID, events := s.library.Hub().Register()
	defer s.library.Hub().Unregister(hubID)
	go func() {
		for ev := range events {
			if ev.Kind == realtime.KindReload {
				send(LiveMessage{Type: LiveReload, Message: ev.Tab})
			}
			sess.HandleEvent(ctx, ev)
		}
	}()

	toggles, all := sess.Toggles()
	send(LiveMessage{Type: LiveInit, Session: sess.ID(), Toggles: toggles, AllOn: all})

	selectTab := func(tab string) {
		go func() {
			err := sess.SelectTab(ctx, tab)
			if err != nil && !errors.Is(err, session.ErrSuperseded) {
				send(LiveMessage{Type: LiveError, Message: err.Error()})
			}
		}()
	}
	selectTab(params.Tab)

	logger.Debugf("%s: connected from %s", sess.ID(), r.RemoteAddr)
	for {
		var req LiveRequest
		if err := conn.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debugf("%s: read: %v", sess.ID(), err)
			}
			break
		}

		switch req.Type {
		case LiveSelect:
			selectTab(req.Tab)
		case LiveInput:
			sess.Input(req.Query)
		case LiveSearch:
			u := sess.Search(req.Query)
			toggles, all := sess.Toggles()
			send(LiveMessage{Type: LiveResults, Update: &u, Toggles: toggles, AllOn: all})
		case LiveField:
			if err := sess.SetField(req.Field, req.On); err != nil {
				send(LiveMessage{Type: LiveError, Message: err.Error()})
			}
		case LiveAll:
			sess.SetAll(req.On)
		case LiveClear:
			sess.Clear()
		default:
			send(LiveMessage{Type: LiveError, Message: "unknown request type " + req.Type})
		}
	}

	cancel()
	<-writerDone
	logger.Debugf("%s: disconnected", sess.ID())
}

// liveConn is the part of a websocket connection the writer uses.
type liveConn interface {
	WriteJSON(v any) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// liveWriter owns all writes to conn. When a write fails it cancels the
// session context and closes conn so the read loop and pending sends return.
func (s *Server) liveWriter(ctx context.Context, cancel context.CancelFunc, conn liveConn, out <-chan LiveMessage, done chan<- struct{}) {
	defer close(done)
	fail := func() {
		cancel()
		_ = conn.Close()
	}

	interval := s.PingInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			return
		case m := <-out:
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(m); err != nil {
				log.ForService("live").Debugf("write: %v", err)
				fail()
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				fail()
				return
			}
		}
	}
}
