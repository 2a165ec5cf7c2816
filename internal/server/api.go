package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/eightweeks/fujimi-forecast/internal/analysis"
	"github.com/eightweeks/fujimi-forecast/internal/cache"
	"github.com/eightweeks/fujimi-forecast/internal/config"
	"github.com/eightweeks/fujimi-forecast/internal/gallery"
	"github.com/eightweeks/fujimi-forecast/internal/projection"
	"github.com/eightweeks/fujimi-forecast/internal/site"
	"github.com/eightweeks/fujimi-forecast/pkg/constants"
	"github.com/eightweeks/fujimi-forecast/pkg/report"
	"github.com/eightweeks/fujimi-forecast/pkg/validation"
	"go.uber.org/zap"
)

const (
	cacheHeader    = "X-Cache"
	cacheKeyPrefix = "analysis"
	cacheTimeout   = 2 * time.Second
)

type projectionResponse struct {
	Projection projection.Projection `json:"projection"`
	Display    projection.Display   `json:"display"`
}

func intParam(q url.Values, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: expected an integer", name, raw)
	}
	return v, nil
}

func floatParam(q url.Values, name string, fallback float64) (float64, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid %s %q: expected a finite number", name, raw)
	}
	return v, nil
}

func (h *handler) handleProjection(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleProjection"
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	q := r.URL.Query()
	count, err := intParam(q, "properties", constants.DefaultPropertyCount)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	percent, err := floatParam(q, "occupancy", constants.DefaultOccupancyPercent)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	if err := validation.ValidatePropertyCount(count); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	if err := validation.ValidateOccupancyPercent(percent); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	proj, err := h.calc.ComputePercent(count, percent)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	h.writeJSON(w, http.StatusOK, projectionResponse{Projection: proj, Display: proj.Display()})
}

func (h *handler) handleGrowth(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleGrowth"
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	fallback := h.conf.Calculator.BaseOccupancyRate * constants.PercentageMultiplier
	percent, err := floatParam(r.URL.Query(), "occupancy", fallback)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	series, err := h.calc.GrowthSeries(percent / constants.PercentageMultiplier)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	h.writeJSON(w, http.StatusOK, series)
}

func (h *handler) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAnalysis"
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	in := h.model.BaseInputs()
	if !h.decodeBody(w, r, &in, op) {
		return
	}
	if err := in.Validate(); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	key, err := cache.Key(cacheKeyPrefix, in)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
		return
	}

	var cached analysis.Report
	if h.lookup(r.Context(), key, &cached) {
		w.Header().Set(cacheHeader, "HIT")
		h.writeJSON(w, http.StatusOK, cached)
		return
	}

	rep, err := h.model.Analyze(in, h.conf)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	h.store(r.Context(), key, rep)

	w.Header().Set(cacheHeader, "MISS")
	h.writeJSON(w, http.StatusOK, rep)
}

// lookup reads a cached report. Cache failures are logged and treated as misses.
func (h *handler) lookup(ctx context.Context, key string, dst *analysis.Report) bool {
	if h.cache == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, cacheTimeout)
	defer cancel()

	ok, err := cache.GetJSON(ctx, h.cache, key, dst)
	if err != nil {
		h.logger.Warn("cache read failed",
			zap.String("op", "server.lookup"),
			zap.String("key", key),
			zap.Error(err),
		)
		return false
	}
	return ok
}

func (h *handler) store(ctx context.Context, key string, rep *analysis.Report) {
	if h.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, cacheTimeout)
	defer cancel()

	if err := cache.SetJSON(ctx, h.cache, key, rep, h.conf.Cache.TTL); err != nil {
		h.logger.Warn("cache write failed",
			zap.String("op", "server.store"),
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

func (h *handler) handleSensitivity(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSensitivity"
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	q := r.URL.Query()
	param := q.Get("param")
	if param == "" {
		param = analysis.ParamOccupancyRate
	}

	var defaults config.SweepRange
	switch param {
	case analysis.ParamOccupancyRate:
		defaults = h.conf.Sensitivity.Occupancy
	case analysis.ParamPricePerNight:
		defaults = h.conf.Sensitivity.Price
	default:
		if q.Get("min") == "" || q.Get("max") == "" {
			h.respondErrorWithOp(w, http.StatusBadRequest,
				fmt.Sprintf("min and max are required for %s", param), op)
			return
		}
		defaults.Steps = h.conf.Sensitivity.Occupancy.Steps
	}

	sweep := defaults
	var err error
	if sweep.Min, err = floatParam(q, "min", defaults.Min); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	if sweep.Max, err = floatParam(q, "max", defaults.Max); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	if sweep.Steps, err = intParam(q, "steps", defaults.Steps); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	if sweep.Steps > constants.MaxSensitivitySteps {
		h.respondErrorWithOp(w, http.StatusBadRequest,
			fmt.Sprintf("steps must be at most %d, got %d", constants.MaxSensitivitySteps, sweep.Steps), op)
		return
	}

	result, err := h.model.Sweep(param, h.model.BaseInputs(), sweep)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, analysis.ErrUnknownParameter) {
			status = http.StatusNotFound
		}
		h.respondErrorWithOp(w, status, err.Error(), op)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

func (h *handler) handleScenarios(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	h.writeJSON(w, http.StatusOK, h.model.CompareScenarios(h.conf.Scenarios, h.model.BaseInputs()))
}

func (h *handler) handleHeatmap(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	h.writeJSON(w, http.StatusOK, h.model.PaybackHeatmap(h.model.BaseInputs()))
}

type galleryResponse struct {
	Items      []gallery.Item        `json:"items"`
	Categories []string              `json:"categories"`
	Visible    []string              `json:"visible"`
	Filter     *gallery.FilterResult `json:"filter,omitempty"`
}

func (h *handler) handleGallery(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	g := gallery.New(h.logger, gallery.DefaultItems())
	resp := galleryResponse{Items: g.Items(), Categories: g.Categories()}
	if token := r.URL.Query().Get("filter"); token != "" {
		result := g.Filter(token)
		resp.Filter = &result
	}
	resp.Visible = g.Visible()
	h.writeJSON(w, http.StatusOK, resp)
}

type loadMoreRequest struct {
	Filter  string   `json:"filter"`
	Visible []string `json:"visible"`
}

func (h *handler) handleGalleryMore(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleGalleryMore"
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req loadMoreRequest
	if !h.decodeBody(w, r, &req, op) {
		return
	}

	g := gallery.New(h.logger, gallery.DefaultItems())
	if err := g.SetVisible(req.Filter, req.Visible); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	h.writeJSON(w, http.StatusOK, g.LoadMore())
}

func (h *handler) handleContact(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleContact"
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var form site.ContactForm
	if !h.decodeBody(w, r, &form, op) {
		return
	}

	confirmation, err := site.AcceptContact(h.logger, form)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusUnprocessableEntity, err.Error(), op)
		return
	}
	h.writeJSON(w, http.StatusOK, confirmation)
}

func (h *handler) baseReport() (*analysis.Report, error) {
	return h.model.Analyze(h.model.BaseInputs(), h.conf)
}

func (h *handler) handleWorkbook(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleWorkbook"
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	rep, err := h.baseReport()
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
		return
	}
	var buf bytes.Buffer
	if err := report.WriteWorkbook(&buf, rep); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
		return
	}
	h.writeAttachment(w, "fujimi-analysis.xlsx",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes(), op)
}

func (h *handler) handlePDF(w http.ResponseWriter, r *http.Request) {
	const op = "server.handlePDF"
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	rep, err := h.baseReport()
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
		return
	}
	var buf bytes.Buffer
	if err := report.WritePDF(&buf, rep, h.now()); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
		return
	}
	h.writeAttachment(w, "fujimi-analysis.pdf", "application/pdf", buf.Bytes(), op)
}

func (h *handler) writeAttachment(w http.ResponseWriter, name, contentType string, body []byte, op string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	if _, err := w.Write(body); err != nil {
		h.logger.Warn("failed to write download",
			zap.String("op", op),
			zap.Error(err),
		)
	}
}
