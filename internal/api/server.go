// Package api exposes the inventory over HTTP for the web UI.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/curiocollect/curio/internal/service"
)

// Server wraps the HTTP surface around a storage backend.
type Server struct {
	store service.Storage
	http  *http.Server
}

// NewServer builds the router and binds it to addr.
func NewServer(addr string, store service.Storage) *Server {
	s := &Server{store: store}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/items", func(r chi.Router) {
			r.Get("/", s.handleListItems)
			r.Post("/", s.handleCreateItem)
			r.Get("/{id}", s.handleGetItem)
			r.Put("/{id}", s.handleUpdateItem)
			r.Delete("/{id}", s.handleDeleteItem)
			r.Get("/{id}/history", s.handleItemHistory)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", s.handleListCategories)
			r.Post("/", s.handleCreateCategory)
			r.Patch("/{id}", s.handleUpdateCategory)
			r.Get("/{id}/items", s.handleCategoryItems)
			r.Post("/{id}/subcategories", s.handleCreateSubcategory)
			r.Patch("/{id}/subcategories/{subID}", s.handleUpdateSubcategory)
			r.Delete("/{id}/subcategories/{subID}", s.handleDeleteSubcategory)
		})

		r.Route("/houses", func(r chi.Router) {
			r.Get("/", s.handleListHouses)
			r.Post("/", s.handleCreateHouse)
			r.Patch("/{id}", s.handleUpdateHouse)
			r.Get("/{id}/items", s.handleHouseItems)
			r.Get("/{id}/history", s.handleHouseHistory)
			r.Post("/{id}/rooms", s.handleCreateRoom)
			r.Patch("/{id}/rooms/{roomID}", s.handleUpdateRoom)
			r.Delete("/{id}/rooms/{roomID}", s.handleDeleteRoom)
		})

		r.Get("/stats", s.handleStats)
		r.Get("/filter-options", s.handleFilterOptions)
		r.Get("/export", s.handleExport)
	})

	s.http = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// ListenAndServe runs the server until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("api server listening", "addr", s.http.Addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
