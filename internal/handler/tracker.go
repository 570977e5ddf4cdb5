package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/sakif/nutrition-tracker/internal/apperror"
	"github.com/sakif/nutrition-tracker/internal/auth"
	"github.com/sakif/nutrition-tracker/internal/service"
)

// TrackerHandler serves meal logging, the dashboard, daily summaries and
// the food list. Every route needs a signed-in session; the service
// enforces that.
type TrackerHandler struct {
	tracker *service.TrackerService
	logger  *slog.Logger
}

// NewTrackerHandler creates a TrackerHandler.
func NewTrackerHandler(tracker *service.TrackerService, logger *slog.Logger) *TrackerHandler {
	return &TrackerHandler{tracker: tracker, logger: logger}
}

// LogMealRequest is the body of POST /api/meals.
type LogMealRequest struct {
	Meal  string   `json:"meal"`
	Items []string `json:"items"`
}

// HandleLogMeal appends a meal stamped with the current time.
//
// HTTP: POST /api/meals → 201 with the stored entry.
// REQUEST BODY: {"meal":"breakfast","items":["oats","apple"]}
func (h *TrackerHandler) HandleLogMeal(w http.ResponseWriter, r *http.Request) {
	var req LogMealRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Warn("invalid meal request body", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	if err := validateMeal(req); err != nil {
		writeError(w, err)
		return
	}

	entry, err := h.tracker.LogMeal(r.Context(), auth.SessionFromContext(r.Context()), req.Meal, req.Items)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// HandleDashboard returns profile, BMR, meals and all-time totals.
//
// HTTP: GET /api/dashboard
func (h *TrackerHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.tracker.Dashboard(r.Context(), auth.SessionFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// HandleSummary returns one day's meals and totals.
//
// HTTP: GET /api/summary?date=2024-03-01 (date defaults to today)
func (h *TrackerHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	date := h.tracker.Today()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.ParseInLocation(service.DateLayout, raw, time.Local)
		if err != nil {
			h.logger.Warn("invalid summary date", slog.String("date", raw))
			writeError(w, apperror.ValidationFailed("date", "date must be formatted as YYYY-MM-DD"))
			return
		}
		date = parsed
	}

	s, err := h.tracker.DailySummary(r.Context(), auth.SessionFromContext(r.Context()), date)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// HandleFoods lists the food catalog, sorted by name.
//
// HTTP: GET /api/foods
func (h *TrackerHandler) HandleFoods(w http.ResponseWriter, r *http.Request) {
	foods, err := h.tracker.Foods(r.Context(), auth.SessionFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, foods)
}
