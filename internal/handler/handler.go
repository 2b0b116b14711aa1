package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/actuallystonmai/recommendation-lambda/internal/domain"
	"github.com/actuallystonmai/recommendation-lambda/internal/metrics"
	"github.com/rs/zerolog/log"
)

const (
	userIDParam = "user_id"

	MissingUserIDMessage = "Missing user_id queryString param"
	InvalidUserIDMessage = "Invalid user_id queryString param"
)

type Recommender interface {
	Recommend(ctx context.Context, userID int64) (*domain.RecommendationResult, error)
}

type Handler struct {
	service Recommender
	metrics *metrics.Metrics
	history HistoryReader
}

func NewHandler(svc Recommender, m *metrics.Metrics) *Handler {
	return &Handler{service: svc, metrics: m}
}

type reply struct {
	status      int
	contentType string
	body        string
}

// serve runs one request from its query parameters. Client errors become a
// 400 reply; anything else is returned for the caller to surface.
func (h *Handler) serve(ctx context.Context, params map[string]string) (reply, error) {
	userID, err := parseUserID(params)
	if err != nil {
		if errors.Is(err, domain.ErrMissingUserID) {
			log.Debug().Msg("[handler] returning error 400, missing user_id query string param")
			h.metrics.ObserveRequest(metrics.OutcomeMissingUserID)
			return textReply(http.StatusBadRequest, MissingUserIDMessage), nil
		}
		log.Debug().Err(err).Msg("[handler] returning error 400, invalid user_id query string param")
		h.metrics.ObserveRequest(metrics.OutcomeInvalidUserID)
		return textReply(http.StatusBadRequest, InvalidUserIDMessage), nil
	}

	result, err := h.service.Recommend(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidUserID) {
			log.Debug().Err(err).Msg("[handler] returning error 400, user_id out of range")
			h.metrics.ObserveRequest(metrics.OutcomeInvalidUserID)
			return textReply(http.StatusBadRequest, InvalidUserIDMessage), nil
		}
		h.metrics.ObserveRequest(metrics.OutcomeError)
		log.Error().Err(err).Int64("user_id", userID).Msg("[handler] recommendation failed")
		return reply{}, err
	}

	if result.CacheHit {
		h.metrics.ObserveRequest(metrics.OutcomeCacheHit)
	} else {
		h.metrics.ObserveRequest(metrics.OutcomeOK)
	}
	log.Debug().Int64("user_id", userID).RawJSON("body", result.Body).Msg("[handler] returning response")
	return reply{status: http.StatusOK, contentType: "application/json", body: string(result.Body)}, nil
}

// parseUserID requires user_id to be present and a positive integer.
func parseUserID(params map[string]string) (int64, error) {
	raw, ok := params[userIDParam]
	if params == nil || !ok {
		return 0, domain.ErrMissingUserID
	}
	userID, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, errors.Join(domain.ErrInvalidUserID, err)
	}
	if userID < 1 {
		return 0, domain.ErrInvalidUserID
	}
	return userID, nil
}

func textReply(status int, msg string) reply {
	return reply{status: status, contentType: "text/plain; charset=utf-8", body: msg}
}

// write JSON response
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writes JSON error response.
func writeError(w http.ResponseWriter, status int, errCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:   errCode,
		Message: message,
	})
}
