package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"synapd/internal/manager"
	"synapd/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	ListModels() []types.Model
	Status() types.StatusResponse
	Ready() bool
	Infer(ctx context.Context, req types.InferRequest) (types.InferResponse, error)
	EnsureInstance(ctx context.Context, modelID string) error
	Instance(modelID string) (types.InstanceStatus, bool)
	Switch(ctx context.Context, modelID string) (string, error)
	Unload(modelID string) error
	SanityCheck() manager.SanityReport
}

var _ Service = (*manager.Manager)(nil)

// NewMux builds the HTTP router for svc.
func NewMux(svc Service, opts Options) http.Handler {
	opts = opts.withDefaults()
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	r.Use(accessLog(opts.Logger, parseLevel(opts.LogLevel)))
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", "X-Request-Id", "X-Log-Level"},
			MaxAge:         300,
		}))
	}
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	h := &handlers{svc: svc, opts: opts}
	r.Get("/models", h.models)
	r.Post("/models/{id}/load", h.load)
	r.Delete("/models/{id}", h.unload)
	r.Get("/status", h.status)
	r.Get("/sanity", h.sanity)
	r.Post("/infer", h.infer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("loading"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	return r
}

type handlers struct {
	svc  Service
	opts Options
}

func (h *handlers) models(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.ModelsResponse{Models: h.svc.ListModels()})
}

func (h *handlers) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Status())
}

func (h *handlers) sanity(w http.ResponseWriter, r *http.Request) {
	rep := h.svc.SanityCheck()
	status := http.StatusOK
	if rep.Error != "" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, rep)
}

// load compiles and loads a model. With ?async=1 it returns 202 and an
// operation id immediately.
func (h *handlers) load(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if async := r.URL.Query().Get("async"); async == "1" || async == "true" {
		op, err := h.svc.Switch(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]string{"op": op, "model": id})
		return
	}
	ctx, cancel := joinContexts(h.opts.BaseContext, r.Context(), 0)
	defer cancel()
	if err := h.svc.EnsureInstance(ctx, id); err != nil {
		writeError(w, err)
		return
	}
	is, ok := h.svc.Instance(id)
	if !ok {
		// unloaded between ensure and lookup
		writeError(w, manager.ErrModelNotFound(id))
		return
	}
	writeJSON(w, http.StatusOK, types.LoadResponse{Model: id, Source: is.Source, ArtifactBytes: is.ArtifactBytes})
}

func (h *handlers) unload(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Unload(chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) infer(w http.ResponseWriter, r *http.Request) {
	// Content-Type check
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxBodyBytes)
	var req types.InferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	// Join server base context with request context so shutdown cancels work too.
	ctx, cancel := joinContexts(h.opts.BaseContext, r.Context(), h.opts.InferTimeout)
	defer cancel()
	resp, err := h.svc.Infer(ctx, req)
	if err != nil {
		// Client went away; nobody is listening for the error.
		if r.Context().Err() != nil {
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
