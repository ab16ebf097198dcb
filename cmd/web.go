package cmd

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rubiojr/armory/cmd/web/components"
	"github.com/rubiojr/armory/cmd/web/components/types"
	"github.com/rubiojr/armory/cmd/web/renderers"
	"github.com/rubiojr/armory/pkg/api"
	"github.com/rubiojr/armory/pkg/config"
	"github.com/rubiojr/armory/pkg/dataset"
	"github.com/rubiojr/armory/pkg/log"
	"github.com/rubiojr/armory/pkg/render"
	"github.com/rubiojr/armory/pkg/search"
	"github.com/rubiojr/armory/pkg/session"
	"github.com/rubiojr/armory/pkg/version"
	"github.com/urfave/cli/v3"
)

//go:embed web/static/*
var staticFS embed.FS

// WebCommand creates the web command with both API and UI
func WebCommand() *cli.Command {
	return &cli.Command{
		Name:  "web",
		Usage: "Start web server with both API endpoints and HTML interface",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Usage:   "Port to listen on (default: [web] port)",
				Sources: cli.EnvVars("ARMORY_PORT"),
			},
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind to (default: [web] host)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return startWebServer(ctx, c.String("config"), c.String("host"), c.Int("port"))
		},
	}
}

// WebServer holds the server configuration and dependencies
type WebServer struct {
	library          *session.Library
	config           *config.Config
	rendererRegistry *renderers.RendererRegistry
	apiServer        *api.Server
}

func NewWebServer(library *session.Library) *WebServer {
	return &WebServer{
		library:          library,
		config:           library.Config(),
		rendererRegistry: renderers.GetGlobalRegistry(),
		apiServer:        api.NewServer(library),
	}
}

// Handler returns the routes of the UI and the API.
func (s *WebServer) Handler() http.Handler {
	mux := http.NewServeMux()

	// API routes
	s.apiServer.RegisterRoutes(mux)

	// Web UI routes
	mux.HandleFunc("/", s.handleHome)

	// Static assets
	mux.HandleFunc("/static/", s.handleStatic)

	return api.CorsMiddleware(mux)
}

// startWebServer starts the web server with both API and UI
func startWebServer(ctx context.Context, configPath, host string, port int) error {
	logger := log.ForService("web")

	library, err := loadLibrary(configPath)
	if err != nil {
		return err
	}
	cfg := library.Config()
	if host == "" {
		host = cfg.Web.Host
	}
	if port == 0 {
		port = cfg.Web.Port
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if cfg.Watch {
		go func() {
			if err := library.Watch(ctx); err != nil {
				logger.Warnf("watch: %v", err)
			}
		}()
	}

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", host, port),
		Handler: NewWebServer(library).Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Starting web server on http://%s", server.Addr)
		logger.Infof("Available endpoints:")
		logger.Infof("  GET / - Search page")
		logger.Infof("  GET /api/tabs - Configured tabs and fields")
		logger.Infof("  GET /api/search - Search a tab")
		logger.Infof("  GET /api/ws - Live search websocket")
		logger.Infof("  GET /health - Health check")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
	case err := <-errCh:
		return fmt.Errorf("starting web server: %w", err)
	}

	logger.Infof("Shutting down web server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	return server.Shutdown(shutdownCtx)
}

// handleHome renders the search page. The query, tab and fields come from
// the URL so the page also works as a plain form without JavaScript.
func (s *WebServer) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	params, err := search.ParseParams(r.URL.Query())
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid parameters: %v", err), http.StatusBadRequest)
		return
	}
	tabID, tab, err := s.config.GetTab(params.Tab)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	opts := params.Options(s.config.Search.DefaultFields)
	toggles := session.NewToggles(opts.List())

	data := types.PageData{
		Title:       fmt.Sprintf("%s - armory", tabLabel(tabID, tab.Label)),
		ActiveTab:   tabID,
		Mode:        string(tab.Mode()),
		ShowFilters: tab.Filters(),
		Toggles:     toggles.State(),
		AllOn:       toggles.AllOn(),
		DebounceMS:  s.config.Search.Debounce.Milliseconds(),
		ToastMS:     s.config.Search.Toast.Milliseconds(),
		Version:     version.APIVersion(),
	}
	for _, id := range s.config.TabIDs() {
		info := s.config.Tabs[id]
		data.Tabs = append(data.Tabs, types.TabInfo{ID: id, Label: tabLabel(id, info.Label), Active: id == tabID})
	}

	engine, err := s.library.Engine(r.Context(), tabID)
	var le *dataset.LoadError
	switch {
	case errors.As(err, &le):
		data.Page = render.Failure(params.Query, tab.Mode(), err)
	case err != nil:
		http.Error(w, fmt.Sprintf("Search failed: %v", err), http.StatusInternalServerError)
		return
	default:
		data.Page = render.Render(engine.Search(params.Query, opts), params.Query, tab.Mode())
	}
	for _, row := range data.Page.Rows {
		data.Rows = append(data.Rows, types.RenderedRow{HTML: string(s.rendererRegistry.Render(tab.Mode(), row))})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := components.Index(data).Render(r.Context(), w); err != nil {
		http.Error(w, fmt.Sprintf("Template error: %v", err), http.StatusInternalServerError)
	}
}

// handleStatic serves static assets from embedded files
func (s *WebServer) handleStatic(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	// Remove /static/ prefix and add web/static/ prefix for embedded filesystem
	filePath := "web/static/" + strings.TrimPrefix(path, "/static/")

	content, err := staticFS.ReadFile(filePath)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if strings.HasSuffix(path, ".css") {
		w.Header().Set("Content-Type", "text/css")
	} else if strings.HasSuffix(path, ".js") {
		w.Header().Set("Content-Type", "application/javascript")
	}

	// Set cache headers for static assets
	w.Header().Set("Cache-Control", "public, max-age=3600")

	if _, err := w.Write(content); err != nil {
		log.ForService("web").Warnf("writing static content: %v", err)
	}
}
