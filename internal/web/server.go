// Package web serves a read-only JSON API over the canton files written by
// the pipeline, for map and list viewers. It reads the output directory
// once at startup; there is no database behind it.
package web

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
)

// Config holds the viewer server settings.
type Config struct {
	Host          string
	Port          int
	DataDir       string
	CollectionKey string
}

// Server is the viewer HTTP server.
type Server struct {
	config     Config
	dataset    *Dataset
	router     *mux.Router
	httpServer *http.Server
}

// NewServer loads the dataset from the configured data directory and
// prepares the routes.
func NewServer(config Config) (*Server, error) {
	dataset, err := LoadDataset(config.DataDir, config.CollectionKey)
	if err != nil {
		return nil, err
	}

	server := &Server{
		config:  config,
		dataset: dataset,
	}
	server.setupRoutes()

	server.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:      server.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return server, nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router = mux.NewRouter()

	handler := &ShopsHandler{Dataset: s.dataset}

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/farmshops", handler.ListShops).Methods("GET")
	api.HandleFunc("/farmshops/geojson", handler.GetGeoJSON).Methods("GET")
	api.HandleFunc("/farmshops/{id:[0-9]+}", handler.GetShop).Methods("GET")
	api.HandleFunc("/cantons", handler.ListCantons).Methods("GET")

	s.router.HandleFunc("/health", s.healthHandler).Methods("GET")
}

// healthHandler reports server status and dataset size.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"status": "healthy",
		"shops":  s.dataset.Len(),
	})
}

// Run starts the server and blocks until SIGINT/SIGTERM, then shuts down
// gracefully.
func (s *Server) Run() error {
	errCh := make(chan error, 1)
	go func() {
		fmt.Printf("Viewer listening on %s (%d shops loaded)\n", s.httpServer.Addr, s.dataset.Len())
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-stop:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
