package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/avdeyev/burnscan/internal/middleware"
	"github.com/avdeyev/burnscan/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxUploadBytes caps the size of an uploaded image.
const maxUploadBytes = 10 << 20

// ClassificationService defines the pipeline operations required by the
// classification handlers.
type ClassificationService interface {
	// Predict classifies an uploaded image for the given user and schedules
	// background persistence.
	Predict(ctx context.Context, userID int64, imageName string, raw []byte) (models.Classification, error)
	// History returns the user's classification records in creation order.
	History(ctx context.Context, userID int64) ([]models.Classification, error)
	// SaveFeedback stores feedback for a classification.
	SaveFeedback(ctx context.Context, f models.Feedback) (int64, error)
}

// ClassificationHandler handles HTTP requests for prediction, history, and
// feedback.
type ClassificationHandler struct {
	// Service orchestrates the classification pipeline.
	Service ClassificationService
	// Log records internal failure detail that is never returned to callers.
	Log *zap.Logger
}

// Predict handles POST /predict requests.
// It expects a multipart form with a "file" part, classifies the image for
// the authenticated caller, and returns the result immediately; persistence
// completes in the background.
func (h *ClassificationHandler) Predict(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.GetCallerIDFromContext(r.Context())

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		http.Error(w, "failed to read upload", http.StatusBadRequest)
		return
	}

	rec, err := h.Service.Predict(r.Context(), callerID, header.Filename, raw)
	if err != nil {
		if errors.Is(err, models.ErrUnsupportedFormat) {
			http.Error(w, "unsupported image format", http.StatusBadRequest)
			return
		}
		h.Log.Error("prediction failed",
			zap.Int64("user_id", callerID),
			zap.String("image_name", header.Filename),
			zap.Error(err),
		)
		http.Error(w, "prediction failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"classification": rec})
}

// History handles GET /classifications/{user_id} requests.
// The caller may only read their own records; any other user_id yields 401.
func (h *ClassificationHandler) History(w http.ResponseWriter, r *http.Request) {
	ownerID, err := strconv.ParseInt(chi.URLParam(r, "user_id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	callerID := middleware.GetCallerIDFromContext(r.Context())
	if callerID != ownerID {
		http.Error(w, "unauthorized access", http.StatusUnauthorized)
		return
	}

	records, err := h.Service.History(r.Context(), ownerID)
	if err != nil {
		h.Log.Error("history retrieval failed", zap.Int64("user_id", ownerID), zap.Error(err))
		http.Error(w, "failed to retrieve classifications", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []models.Classification{}
	}

	writeJSON(w, http.StatusOK, records)
}

// feedbackRequest represents the JSON payload for feedback submission.
type feedbackRequest struct {
	UserID           int64  `json:"user_id"`
	ClassificationID int64  `json:"classification_id"`
	FeedbackText     string `json:"feedback_text"`
}

// Feedback handles POST /feedback requests.
// The caller may only submit feedback as themselves.
func (h *ClassificationHandler) Feedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.FeedbackText == "" || req.ClassificationID == 0 {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	callerID := middleware.GetCallerIDFromContext(r.Context())
	if callerID != req.UserID {
		http.Error(w, "unauthorized access", http.StatusUnauthorized)
		return
	}

	if _, err := h.Service.SaveFeedback(r.Context(), models.Feedback{
		UserID:           req.UserID,
		ClassificationID: req.ClassificationID,
		FeedbackText:     req.FeedbackText,
	}); err != nil {
		h.Log.Error("feedback submission failed",
			zap.Int64("user_id", req.UserID),
			zap.Int64("classification_id", req.ClassificationID),
			zap.Error(err),
		)
		http.Error(w, "failed to submit feedback", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"message": "Feedback submitted successfully"})
}
