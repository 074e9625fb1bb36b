package demo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zhubert/chatlog/internal/archive"
	"github.com/zhubert/chatlog/internal/logger"
)

const (
	// maxUploadSize caps an uploaded archive
	maxUploadSize = 64 << 20
	// minQueryLength matches the real backend's validation
	minQueryLength = 3
)

type handler struct {
	store *Store
	log   *slog.Logger
}

// NewRouter serves the archive API from store.
func NewRouter(store *Store) http.Handler {
	h := &handler{store: store, log: logger.WithComponent("demo")}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(h.logRequests)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/conversations", h.conversations)
		r.Get("/conversations/{id}/messages", h.messages)
		r.Post("/toggle_favorite", h.toggleFavorite)
		r.Get("/activity", h.activity)
		r.Get("/activity/last24h", h.activityLast24h)
		r.Get("/statistics", h.statistics)
		r.Get("/search", h.search)
		r.Get("/ai-cost", h.aiCost)
		r.Post("/upload_zip", h.uploadZip)
	})
	return r
}

func (h *handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.log.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"request_id", middleware.GetReqID(r.Context()),
			"duration", time.Since(start))
	})
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes the {"detail": ...} body the client reads failures from.
func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func (h *handler) conversations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Conversations())
}

func (h *handler) messages(w http.ResponseWriter, r *http.Request) {
	id, err := url.PathUnescape(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid conversation ID")
		return
	}
	t, ok := h.store.Transcript(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Invalid conversation ID")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *handler) toggleFavorite(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("conv_id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "conv_id is required")
		return
	}
	writeJSON(w, http.StatusOK, h.store.ToggleFavorite(id))
}

func (h *handler) activity(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Activity())
}

func (h *handler) activityLast24h(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Last24h(r.URL.Query().Get("role")))
}

func (h *handler) statistics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Statistics())
}

func (h *handler) search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if len([]rune(query)) < minQueryLength {
		writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("query must be at least %d characters", minQueryLength))
		return
	}
	writeJSON(w, http.StatusOK, h.store.Search(query))
}

func (h *handler) aiCost(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Costs())
}

func (h *handler) uploadZip(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, header, err := r.FormFile(archive.UploadField)
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".zip") {
		writeError(w, http.StatusBadRequest, "file must be a .zip archive")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read upload")
		return
	}

	convs, err := readExport(data)
	switch {
	case errors.Is(err, ErrNoConversations), errors.Is(err, ErrBadZip):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.log.Error("processing upload failed", "file", header.Filename, "error", err)
		writeError(w, http.StatusInternalServerError, "error processing zip file: "+err.Error())
		return
	}

	n := h.store.importConversations(convs)
	h.log.Info("archive imported", "file", header.Filename, "count", n)
	writeJSON(w, http.StatusOK, archive.UploadResult{
		Status: "ok",
		Detail: fmt.Sprintf("loaded %d conversations.", n),
		Count:  n,
	})
}

// Server is a running demo backend.
type Server struct {
	srv      *http.Server
	listener net.Listener
}

// Start serves store on addr ("127.0.0.1:0" picks a free port).
func Start(addr string, store *Store) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	s := &Server{
		srv: &http.Server{
			Handler:           NewRouter(store),
			ReadHeaderTimeout: 10 * time.Second,
		},
		listener: ln,
	}
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithComponent("demo").Error("demo server stopped", "error", err)
		}
	}()
	return s, nil
}

// URL is the base URL clients should use.
func (s *Server) URL() string {
	return "http://" + s.listener.Addr().String()
}

// Shutdown stops the server, waiting for in-flight requests until ctx ends.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
