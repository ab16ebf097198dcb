// Package realtime fans out dataset events to interested listeners, such as
// live web sessions that need to re-run their query after a dataset changed
// on disk.
//
// Delivery is best effort: each listener has a buffered channel and a full
// buffer drops the event for that listener only, so a stalled websocket never
// blocks the watcher.
package realtime

import (
	"sync"
	"time"
)

// Event kinds.
const (
	KindReload = "reload"
	KindError  = "error"
)

// DatasetEvent reports that the dataset behind a tab was reloaded, or failed
// to reload.
type DatasetEvent struct {
	Kind    string    `json:"kind"`
	Tab     string    `json:"tab"`
	Path    string    `json:"path"`
	Records int       `json:"records"`
	Error   string    `json:"error,omitempty"`
	At      time.Time `json:"at"`
}

// Reloaded builds a KindReload event.
func Reloaded(tab, path string, records int) DatasetEvent {
	return DatasetEvent{Kind: KindReload, Tab: tab, Path: path, Records: records, At: time.Now()}
}

// Failed builds a KindError event.
func Failed(tab, path string, err error) DatasetEvent {
	return DatasetEvent{Kind: KindError, Tab: tab, Path: path, Error: err.Error(), At: time.Now()}
}

// Hub is a concurrency-safe in-memory fan-out dispatcher.
type Hub struct {
	mu        sync.RWMutex
	listeners map[uint64]chan DatasetEvent
	nextID    uint64
	bufSize   int
}

// NewHub returns a hub with the given per-listener buffer (default 16).
func NewHub(bufSize int) *Hub {
	if bufSize <= 0 {
		bufSize = 16
	}
	return &Hub{
		listeners: make(map[uint64]chan DatasetEvent),
		bufSize:   bufSize,
	}
}

// Register adds a listener. Callers must Unregister the returned id.
func (h *Hub) Register() (uint64, <-chan DatasetEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	ch := make(chan DatasetEvent, h.bufSize)
	h.listeners[id] = ch
	return id, ch
}

// Unregister removes a listener and closes its channel. Unknown ids are
// ignored.
func (h *Hub) Unregister(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.listeners[id]; ok {
		delete(h.listeners, id)
		close(ch)
	}
}

// Broadcast delivers ev to every listener whose buffer has room.
func (h *Hub) Broadcast(ev DatasetEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.listeners {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Size returns the number of registered listeners.
func (h *Hub) Size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners)
}
