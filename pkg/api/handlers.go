package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/rubiojr/armory/pkg/dataset"
	"github.com/rubiojr/armory/pkg/index"
	"github.com/rubiojr/armory/pkg/render"
	"github.com/rubiojr/armory/pkg/search"
	"github.com/rubiojr/armory/pkg/version"
)

func (s *Server) HandleTabs(w http.ResponseWriter, r *http.Request) {
	cfg := s.library.Config()

	response := TabsResponse{
		DefaultTab:    cfg.DefaultTab,
		Fields:        index.ToggleFields(),
		DefaultFields: cfg.Search.DefaultFields,
		DebounceMS:    cfg.Search.Debounce.Milliseconds(),
		ToastMS:       cfg.Search.Toast.Milliseconds(),
	}
	for _, id := range cfg.TabIDs() {
		tab := cfg.Tabs[id]
		label := tab.Label
		if label == "" {
			label = id
		}
		response.Tabs = append(response.Tabs, TabResponse{
			ID:          id,
			Label:       label,
			Type:        string(tab.Mode()),
			ShowFilters: tab.Filters(),
		})
	}

	s.writeJSON(w, http.StatusOK, response)
}

func (s *Server) HandleSearch(w http.ResponseWriter, r *http.Request) {
	params, err := search.ParseParams(r.URL.Query())
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid parameters", err.Error())
		return
	}

	cfg := s.library.Config()
	tabID, tab, err := cfg.GetTab(params.Tab)
	if err != nil {
		s.writeError(w, http.StatusNotFound, "Tab not found", err.Error())
		return
	}

	engine, err := s.library.Engine(r.Context(), tabID)
	if err != nil {
		var le *dataset.LoadError
		if errors.As(err, &le) {
			s.writeError(w, http.StatusBadGateway, "Dataset unavailable", err.Error())
			return
		}
		s.writeError(w, http.StatusInternalServerError, "Search failed", err.Error())
		return
	}

	opts := params.Options(cfg.Search.DefaultFields)
	results := engine.Search(params.Query, opts)

	s.writeJSON(w, http.StatusOK, SearchResponse{
		Tab:    tabID,
		Fields: opts.List(),
		Page:   render.Render(results, params.Query, tab.Mode()),
	})
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	health := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Version:   version.APIVersion(),
	}

	s.writeJSON(w, http.StatusOK, health)
}
