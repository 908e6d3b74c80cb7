package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/xtrntr/marketdash/internal/cache"
	"github.com/xtrntr/marketdash/internal/dataset"
	"github.com/xtrntr/marketdash/internal/report"
)

// ReportCacheKey is where the encoded report is cached
const ReportCacheKey = "report:v1"

// Handler contains dependencies for HTTP handlers
type Handler struct {
	Dataset  *dataset.Dataset
	Cache    cache.Cache
	CacheTTL time.Duration
	Log      logrus.FieldLogger
}

// NewHandler creates a new handler
func NewHandler(ds *dataset.Dataset, c cache.Cache, ttl time.Duration, log logrus.FieldLogger) *Handler {
	return &Handler{Dataset: ds, Cache: c, CacheTTL: ttl, Log: log}
}

// NewRouter wires every dashboard route
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.RequestLogger)

	r.Get("/", h.Dashboard)
	r.Get("/healthz", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.SetHeader("Content-Type", "application/json"))
		r.Get("/report", h.GetReport)
		r.Get("/tabs", h.ListTabs)
		r.Get("/tabs/{id}", h.GetTab)
	})
	return r
}

// RequestLogger logs one line per request
func (h *Handler) RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.Log.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"bytes":      ww.BytesWritten(),
			"duration":   time.Since(start),
			"request_id": middleware.GetReqID(r.Context()),
		}).Debug("Handled request")
	})
}

// report returns the cached report, building and caching it on a miss.
// Cache failures are logged and never fail the request.
func (h *Handler) report(ctx context.Context) (*report.Report, error) {
	if h.Cache != nil {
		data, ok, err := h.Cache.Get(ctx, ReportCacheKey)
		switch {
		case err != nil:
			h.Log.WithError(err).Warn("Failed to read cached report")
		case ok:
			var r report.Report
			uerr := json.Unmarshal(data, &r)
			if uerr == nil {
				return &r, nil
			}
			h.Log.WithError(uerr).Warn("Discarding unreadable cached report")
		}
	}

	r, err := report.Build(h.Dataset)
	if err != nil {
		return nil, err
	}

	if h.Cache != nil {
		data, err := json.Marshal(r)
		if err != nil {
			h.Log.WithError(err).Warn("Failed to encode report for cache")
			return r, nil
		}
		if err := h.Cache.Set(ctx, ReportCacheKey, data, h.CacheTTL); err != nil {
			h.Log.WithError(err).Warn("Failed to cache report")
		}
	}
	return r, nil
}

// Dashboard serves the tabbed HTML page
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	rep, err := h.report(r.Context())
	if err != nil {
		h.Log.WithError(err).Error("Failed to build report")
		http.Error(w, "Failed to build report", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := report.Render(&buf, rep); err != nil {
		h.Log.WithError(err).Error("Failed to render dashboard")
		http.Error(w, "Failed to render dashboard", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

// GetReport returns every tab with its sections
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	rep, err := h.report(r.Context())
	if err != nil {
		h.Log.WithError(err).Error("Failed to build report")
		http.Error(w, `{"error": "Failed to build report"}`, http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(rep)
}

// ListTabs returns the ID and title of every tab
func (h *Handler) ListTabs(w http.ResponseWriter, r *http.Request) {
	rep, err := h.report(r.Context())
	if err != nil {
		h.Log.WithError(err).Error("Failed to build report")
		http.Error(w, `{"error": "Failed to build report"}`, http.StatusInternalServerError)
		return
	}

	type tabInfo struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	tabs := make([]tabInfo, len(rep.Tabs))
	for i, t := range rep.Tabs {
		tabs[i] = tabInfo{ID: t.ID, Title: t.Title}
	}
	json.NewEncoder(w).Encode(tabs)
}

// GetTab returns a single tab
func (h *Handler) GetTab(w http.ResponseWriter, r *http.Request) {
	rep, err := h.report(r.Context())
	if err != nil {
		h.Log.WithError(err).Error("Failed to build report")
		http.Error(w, `{"error": "Failed to build report"}`, http.StatusInternalServerError)
		return
	}

	tab, err := rep.Tab(chi.URLParam(r, "id"))
	if errors.Is(err, report.ErrUnknownTab) {
		http.Error(w, `{"error": "Unknown tab"}`, http.StatusNotFound)
		return
	}

	json.NewEncoder(w).Encode(tab)
}

// Health reports the loaded table sizes
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status": "ok",
		"tables": h.Dataset.Counts(),
	})
}
