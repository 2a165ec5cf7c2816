// Package server serves the landing page and its JSON, download and
// WebSocket API.
package server

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/eightweeks/fujimi-forecast/internal/analysis"
	"github.com/eightweeks/fujimi-forecast/internal/cache"
	"github.com/eightweeks/fujimi-forecast/internal/config"
	"github.com/eightweeks/fujimi-forecast/internal/projection"
	"github.com/eightweeks/fujimi-forecast/pkg/constants"
	"go.uber.org/zap"
)

//go:embed static/*
var staticFiles embed.FS

// Options configures NewHandler.
type Options struct {
	// Config is the analysis configuration; defaults are used when nil.
	Config        *config.Configuration
	Cache         cache.Cache
	Limiter       *RateLimiter
	MaxUploadSize int64
	Version       string
	// Now is the clock used for generated reports and animations.
	Now func() time.Time
}

// Handler is the root HTTP handler. Close disconnects open sockets.
type Handler struct {
	http.Handler
	sockets *socketRegistry
}

// Close closes every open WebSocket connection.
func (h *Handler) Close() {
	h.sockets.closeAll()
}

type handler struct {
	logger        *zap.Logger
	conf          config.Configuration
	calc          *projection.Calculator
	model         *analysis.Model
	cache         cache.Cache
	maxUploadSize int64
	version       string
	now           func() time.Time
	sockets       *socketRegistry
}

// NewHandler constructs the HTTP handler that serves the web UI and API.
func NewHandler(logger *zap.Logger, opts Options) (*Handler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	conf := config.DefaultConfiguration()
	if opts.Config != nil {
		conf = *opts.Config
	}

	calc, err := projection.NewCalculator(logger, conf.Calculator)
	if err != nil {
		return nil, fmt.Errorf("calculator: %w", err)
	}
	model, err := analysis.NewModel(logger, conf.Model)
	if err != nil {
		return nil, fmt.Errorf("analysis model: %w", err)
	}

	maxUploadSize := opts.MaxUploadSize
	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(opts.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	h := &handler{
		logger:        logger,
		conf:          conf,
		calc:          calc,
		model:         model,
		cache:         opts.Cache,
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
		now:           now,
		sockets:       newSocketRegistry(),
	}

	mux := http.NewServeMux()

	// Landing page calculator
	mux.HandleFunc("/api/projection", h.handleProjection)
	mux.HandleFunc("/api/chart/growth", h.handleGrowth)

	// Companion analysis
	mux.HandleFunc("/api/analysis", h.handleAnalysis)
	mux.HandleFunc("/api/analysis/sensitivity", h.handleSensitivity)
	mux.HandleFunc("/api/analysis/scenarios", h.handleScenarios)
	mux.HandleFunc("/api/analysis/heatmap", h.handleHeatmap)

	// Gallery and contact form
	mux.HandleFunc("/api/gallery", h.handleGallery)
	mux.HandleFunc("/api/gallery/more", h.handleGalleryMore)
	mux.HandleFunc("/api/contact", h.handleContact)

	// Downloads
	mux.HandleFunc("/api/export.xlsx", h.handleWorkbook)
	mux.HandleFunc("/api/report.pdf", h.handlePDF)

	// Version endpoint for UI metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	// Live slider recomputation
	mux.HandleFunc("/ws/projection", h.handleSocket)

	// Static assets (landing page)
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare embedded static files: %w", err)
	}
	mux.Handle("/", http.FileServer(http.FS(sub)))

	var root http.Handler = mux
	root = withBodyLimit(maxUploadSize, root)
	root = withRateLimit(logger, opts.Limiter, root)
	root = withRequestID(root)

	return &Handler{Handler: root, sockets: h.sockets}, nil
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.Header().Set("Allow", method)
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// decodeBody decodes a JSON request body into dst, mapping oversized bodies
// to 413 and malformed ones to 400.
func (h *handler) decodeBody(w http.ResponseWriter, r *http.Request, dst any, op string) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxUploadSize), op)
			return false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return false
	}
	return true
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	writeJSON(h.logger, w, status, payload)
}

func writeJSON(logger *zap.Logger, w http.ResponseWriter, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.Error("failed to encode JSON response",
			zap.String("op", "server.writeJSON"),
			zap.Error(err),
		)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"failed to encode response"}` + "\n"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		logger.Error("failed to write JSON response",
			zap.String("op", "server.writeJSON"),
			zap.Error(err),
		)
	}
}
