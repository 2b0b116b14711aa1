package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/actuallystonmai/recommendation-lambda/internal/domain"
	"github.com/actuallystonmai/recommendation-lambda/internal/embeddings"
	"github.com/actuallystonmai/recommendation-lambda/internal/metrics"
	"github.com/actuallystonmai/recommendation-lambda/internal/model"
	"github.com/rs/zerolog/log"
)

// Invoker calls the inference endpoint with one CSV encoded feature vector.
type Invoker interface {
	Invoke(ctx context.Context, csvBody []byte) (*model.EndpointResponse, error)
}

type ResultCache interface {
	Get(ctx context.Context, userID int64, shape domain.ResponseShape) ([]byte, bool, error)
	Set(ctx context.Context, userID int64, shape domain.ResponseShape, body []byte) error
}

type Recorder interface {
	Record(ctx context.Context, entry domain.RecommendationLog) error
}

type Service struct {
	matrix       *embeddings.Matrix
	modelClient  Invoker
	shape        domain.ResponseShape
	endpointName string
	cache        ResultCache
	recorder     Recorder
	metrics      *metrics.Metrics
	now          func() time.Time
}

type Option func(*Service)

func WithCache(c ResultCache) Option {
	return func(s *Service) { s.cache = c }
}

func WithRecorder(r Recorder, endpointName string) Option {
	return func(s *Service) {
		s.recorder = r
		s.endpointName = endpointName
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService builds a service over an already loaded matrix. The matrix is
// only ever read.
func NewService(matrix *embeddings.Matrix, modelClient Invoker, shape domain.ResponseShape, opts ...Option) *Service {
	s := &Service{
		matrix:      matrix,
		modelClient: modelClient,
		shape:       shape,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Recommend slices the user's embedding, makes exactly one endpoint call and
// renders the labels in the configured shape.
func (s *Service) Recommend(ctx context.Context, userID int64) (*domain.RecommendationResult, error) {
	if s.cache != nil {
		cached, found, err := s.cache.Get(ctx, userID, s.shape)
		if err != nil {
			log.Warn().Err(err).Int64("user_id", userID).Msg("[service] cache get error")
		}
		if found {
			return &domain.RecommendationResult{
				UserID:   userID,
				Body:     cached,
				CacheHit: true,
			}, nil
		}
	}

	payload, err := s.matrix.RowCSV(userID)
	if err != nil {
		if errors.Is(err, embeddings.ErrUserOutOfRange) {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidUserID, err)
		}
		return nil, err
	}

	start := time.Now()
	resp, err := s.modelClient.Invoke(ctx, payload)
	s.metrics.ObserveInvocation(time.Since(start), err)
	if err != nil {
		return nil, err
	}

	body, itemIDs, err := s.render(resp.Labels)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, s.shape, body); err != nil {
			log.Warn().Err(err).Int64("user_id", userID).Msg("[service] cache set error")
		}
	}
	if s.recorder != nil {
		entry := domain.RecommendationLog{
			UserID:       userID,
			EndpointName: s.endpointName,
			ItemIDs:      itemIDs,
			CreatedAt:    s.now().UTC(),
		}
		if err := s.recorder.Record(ctx, entry); err != nil {
			log.Warn().Err(err).Int64("user_id", userID).Msg("[service] recommendation log error")
		}
	}

	return &domain.RecommendationResult{
		UserID:  userID,
		Body:    body,
		ItemIDs: itemIDs,
	}, nil
}

func (s *Service) render(labels []json.RawMessage) ([]byte, []string, error) {
	itemIDs := make([]string, 0, len(labels))
	for _, label := range labels {
		id, err := labelToItemID(label)
		if err != nil {
			return nil, nil, &model.ModelInferenceError{Msg: fmt.Sprintf("map label %s", label), Err: err}
		}
		itemIDs = append(itemIDs, id)
	}

	var v any
	switch s.shape {
	case domain.ShapeMovies:
		v = domain.MoviesResponse{Movies: labels}
	default:
		items := make([]domain.Item, len(itemIDs))
		for i, id := range itemIDs {
			items[i] = domain.Item{ItemID: id}
		}
		v = domain.ItemListResponse{ItemList: items}
	}

	body, err := json.Marshal(v)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal response body: %w", err)
	}
	return body, itemIDs, nil
}

// labelToItemID converts a numeric label to an integer, truncating toward
// zero, and formats it in decimal. Labels sent as strings must hold an integer.
func labelToItemID(raw json.RawMessage) (string, error) {
	if string(raw) == "null" {
		return "", errors.New("label is null")
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		t := math.Trunc(f)
		if t == 0 {
			t = 0 // drop the sign of -0
		}
		return strconv.FormatFloat(t, 'f', 0, 64), nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", errors.New("label is neither a number nor a string")
	}
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return "", fmt.Errorf("parse label: %w", err)
	}
	return strconv.FormatInt(n, 10), nil
}
