package session

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rubiojr/armory/pkg/config"
	"github.com/rubiojr/armory/pkg/dataset"
	"github.com/rubiojr/armory/pkg/debounce"
	"github.com/rubiojr/armory/pkg/log"
	"github.com/rubiojr/armory/pkg/realtime"
	"github.com/rubiojr/armory/pkg/search"
)

// Loader hands out search engines for tabs.
type Loader interface {
	Engine(ctx context.Context, tab string) (*search.Engine, error)
}

// Library loads and caches one engine per configured tab. Engines are
// immutable, so a cached engine can be shared by any number of sessions.
type Library struct {
	cfg    *config.Config
	loader *dataset.Loader
	hub    *realtime.Hub

	mu       sync.Mutex
	engines  map[string]*search.Engine
	versions map[string]uint64
}

func NewLibrary(cfg *config.Config, loader *dataset.Loader) *Library {
	return &Library{
		cfg:      cfg,
		loader:   loader,
		hub:      realtime.NewHub(0),
		engines:  make(map[string]*search.Engine),
		versions: make(map[string]uint64),
	}
}

// Config returns the configuration the library serves.
func (l *Library) Config() *config.Config {
	return l.cfg
}

// Hub returns the hub dataset events are published on.
func (l *Library) Hub() *realtime.Hub {
	return l.hub
}

// Engine returns the cached engine for tab, loading it on first use.
// Failures are not cached.
func (l *Library) Engine(ctx context.Context, tab string) (*search.Engine, error) {
	id, info, err := l.cfg.GetTab(tab)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	if e, ok := l.engines[id]; ok {
		l.mu.Unlock()
		return e, nil
	}
	version := l.versions[id]
	l.mu.Unlock()

	ds, err := l.loader.Load(ctx, info.Path, info.Mode())
	if err != nil {
		return nil, err
	}
	engine := search.FromDataset(ds)

	l.mu.Lock()
	// Only cache if nothing invalidated the tab while loading.
	if l.versions[id] == version {
		l.engines[id] = engine
	}
	l.mu.Unlock()

	log.ForService("library").Infof("tab %s: indexed %d %s entries from %s", id, engine.Len(), engine.Mode(), info.Path)
	return engine, nil
}

// Invalidate drops the cached engine for tab.
func (l *Library) Invalidate(tab string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.engines, tab)
	l.versions[tab]++
}

// Reload invalidates tab, loads it again and publishes the outcome.
func (l *Library) Reload(ctx context.Context, tab string) error {
	id, info, err := l.cfg.GetTab(tab)
	if err != nil {
		return err
	}
	l.Invalidate(id)

	engine, err := l.Engine(ctx, id)
	if err != nil {
		l.hub.Broadcast(realtime.Failed(id, info.Path, err))
		return err
	}
	l.hub.Broadcast(realtime.Reloaded(id, info.Path, engine.Len()))
	return nil
}

// watchDelay coalesces the burst of events editors produce on save.
const watchDelay = 200 * time.Millisecond

// Watch reloads file-backed tabs when their files change and blocks until
// ctx is done. Directories are watched rather than files so atomic saves
// (write to temp, rename over) keep being noticed.
func (l *Library) Watch(ctx context.Context) error {
	logger := log.ForService("watch")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer watcher.Close()

	byPath := make(map[string][]string)
	dirs := make(map[string]bool)
	for _, id := range l.cfg.TabIDs() {
		path, local := l.loader.Resolve(l.cfg.Tabs[id].Path)
		if !local {
			continue
		}
		path = filepath.Clean(path)
		byPath[path] = append(byPath[path], id)
		dirs[filepath.Dir(path)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			logger.Warnf("cannot watch %s: %v", dir, err)
			continue
		}
		logger.Debugf("watching %s", dir)
	}

	pending := make(map[string]*debounce.Debouncer)
	defer func() {
		for _, d := range pending {
			d.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			tabs, match := byPath[filepath.Clean(event.Name)]
			if !match || !event.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) {
				continue
			}
			logger.Debugf("%s: %s", event.Op, event.Name)
			d, ok := pending[event.Name]
			if !ok {
				d = debounce.New(watchDelay)
				pending[event.Name] = d
			}
			d.Schedule(func() {
				for _, tab := range tabs {
					if err := l.Reload(ctx, tab); err != nil {
						logger.Warnf("reloading tab %s: %v", tab, err)
					}
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnf("watcher error: %v", err)
		}
	}
}
