package api

import (
	"net/http"

	"github.com/nijaru/vod-highlights/errors"
	"github.com/nijaru/vod-highlights/models"
	"github.com/nijaru/vod-highlights/services/controller"
	"github.com/nijaru/vod-highlights/share"
	"github.com/sirupsen/logrus"
)

type HighlightHandler struct {
	controller *controller.Controller
	exporter   *share.Exporter
	logger     *logrus.Logger
}

// NewHighlightHandler wires the session controller. exporter may be nil,
// in which case export requests answer 503.
func NewHighlightHandler(c *controller.Controller, exporter *share.Exporter) *HighlightHandler {
	return &HighlightHandler{
		controller: c,
		exporter:   exporter,
		logger:     logrus.StandardLogger(),
	}
}

// HandleRequestHighlights handles POST /api/v1/highlights
func (h *HighlightHandler) HandleRequestHighlights(w http.ResponseWriter, r *http.Request) {
	var req models.HighlightRequest
	if err := readJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	h.logger.WithContext(r.Context()).WithFields(logrus.Fields{
		"url":   req.URL,
		"query": req.Query,
	}).Info("Received highlight request")

	state, err := h.controller.RequestHighlights(r.Context(), req.URL, req.Query)
	if err != nil {
		respondErrorWithData(w, r, err, state)
		return
	}

	respondJSON(w, r, http.StatusOK, state)
}

// HandleGetHighlights handles GET /api/v1/highlights
func (h *HighlightHandler) HandleGetHighlights(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, h.controller.State())
}

// HandleFeedback handles POST /api/v1/feedback
func (h *HighlightHandler) HandleFeedback(w http.ResponseWriter, r *http.Request) {
	const op = "HighlightHandler.HandleFeedback"

	var req models.FeedbackRequest
	if err := readJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	feedback, err := models.ParseFeedback(req.Feedback)
	if err != nil {
		respondError(w, r, errors.InvalidInput(op, err, "feedback must be liked or disliked"))
		return
	}

	var state controller.State
	switch {
	case req.ID != "":
		state, err = h.controller.SubmitFeedbackByID(r.Context(), req.ID, feedback)
	case req.Description != "":
		state, err = h.controller.SubmitFeedback(r.Context(), req.Description, feedback)
	default:
		err = errors.InvalidInput(op, nil, "id or description is required")
	}
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, state)
}

// HandleGetPreferences handles GET /api/v1/preferences
func (h *HighlightHandler) HandleGetPreferences(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, h.controller.Preferences())
}

// HandleShare handles GET /api/v1/highlights/{id}/share
func (h *HighlightHandler) HandleShare(w http.ResponseWriter, r *http.Request) {
	const op = "HighlightHandler.HandleShare"

	id := r.PathValue("id")
	highlight, vodURL, ok := h.controller.Highlight(id)
	if !ok {
		respondError(w, r, errors.NotFound(op, nil, "Highlight not found"))
		return
	}

	respondJSON(w, r, http.StatusOK, share.Describe(vodURL, highlight))
}

// HandleExport handles POST /api/v1/highlights/export
func (h *HighlightHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	const op = "HighlightHandler.HandleExport"

	if h.exporter == nil {
		respondError(w, r, errors.E(op, nil, "Export is not configured", http.StatusServiceUnavailable))
		return
	}

	state := h.controller.State()
	if len(state.Highlights) == 0 {
		respondError(w, r, errors.InvalidInput(op, nil, "No highlights to export"))
		return
	}

	key, err := h.exporter.Export(r.Context(), state.URL, state.Query, state.Highlights)
	if err != nil {
		respondError(w, r, errors.Unavailable(op, err, "Failed to export highlights"))
		return
	}

	respondJSON(w, r, http.StatusOK, models.ExportResponse{Key: key})
}
