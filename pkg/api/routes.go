package api

import (
	"net/http"
)

func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/tabs", s.HandleTabs)
	mux.HandleFunc("GET /api/search", s.HandleSearch)
	mux.HandleFunc("GET /api/ws", s.HandleLive)
	mux.HandleFunc("GET /health", s.HandleHealth)
}
