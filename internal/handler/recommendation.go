package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/actuallystonmai/recommendation-lambda/internal/model"
)

// GET /recommendations?user_id=N
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	params := map[string]string{}
	query := r.URL.Query()
	if query.Has(userIDParam) {
		params[userIDParam] = query.Get(userIDParam)
	}

	resp, err := h.serve(r.Context(), params)
	if err != nil {
		// Model inference failure
		if model.IsModelInferenceError(err) || errors.Is(err, model.ErrEndpointNotConfigured) {
			writeError(w, http.StatusServiceUnavailable, "model_unavailable",
				"Recommendation model is temporarily unavailable")
			return
		}
		// Request timeout
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			writeError(w, http.StatusServiceUnavailable, "request_timeout",
				"Request timed out, please try again")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
		return
	}

	w.Header().Set("Content-Type", resp.contentType)
	w.WriteHeader(resp.status)
	w.Write([]byte(resp.body))
}
