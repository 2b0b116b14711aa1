package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/actuallystonmai/recommendation-lambda/internal/domain"
)

type HistoryReader interface {
	RecentForUser(ctx context.Context, userID int64, limit int) ([]domain.RecommendationLog, error)
}

// WithHistory enables GET /recommendations/history backed by r.
func (h *Handler) WithHistory(r HistoryReader) *Handler {
	h.history = r
	return h
}

// GET /recommendations/history?user_id=N&limit=M
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeError(w, http.StatusNotFound, "not_found", "Recommendation log is not enabled")
		return
	}

	userID, err := strconv.ParseInt(r.URL.Query().Get(userIDParam), 10, 64)
	if err != nil || userID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid user_id parameter")
		return
	}

	// Parse and validate limit
	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 || parsed > 100 {
			writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid limit parameter")
			return
		}
		limit = parsed
	}

	entries, err := h.history.RecentForUser(r.Context(), userID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
		return
	}

	resp := HistoryResponse{UserID: userID, Entries: make([]HistoryEntry, 0, len(entries))}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, HistoryEntry{
			EndpointName: e.EndpointName,
			ItemIDs:      e.ItemIDs,
			CreatedAt:    e.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
