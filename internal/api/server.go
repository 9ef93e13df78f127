// Package api exposes the scanner over HTTP: browsing listings, triaging
// them, triggering scans and AI analyses.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mlegrand/immoscan/internal/cache"
	"github.com/mlegrand/immoscan/internal/core"
	"github.com/mlegrand/immoscan/internal/store"
)

type Server struct {
	router   *chi.Mux
	store    *store.Store // optional
	cache    *cache.FileCache
	scanner  *core.ScanService
	analyzer *core.AnalyzerService
}

func NewServer(st *store.Store, c *cache.FileCache, scanner *core.ScanService, analyzer *core.AnalyzerService) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		store:    st,
		cache:    c,
		scanner:  scanner,
		analyzer: analyzer,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
	}))

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/listings", s.handleListListings)
	s.router.Get("/listings/detail", s.handleListingDetail)
	s.router.Post("/listings/analyze", s.handleAnalyze)
	s.router.Post("/listings/status", s.handleSetStatus)
	s.router.Post("/listings/refresh", s.handleRefresh)
	s.router.Post("/scan", s.handleScan)
	s.router.Get("/export.csv", s.handleExportCSV)
	s.router.Get("/report", s.handleReport)
	s.router.Get("/stats", s.handleStats)
}

func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
