package router

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/actuallystonmai/recommendation-lambda/internal/domain"
	"github.com/actuallystonmai/recommendation-lambda/internal/handler"
	"github.com/actuallystonmai/recommendation-lambda/internal/metrics"
	"github.com/stretchr/testify/assert"
)

type staticRecommender struct{}

func (staticRecommender) Recommend(_ context.Context, userID int64) (*domain.RecommendationResult, error) {
	return &domain.RecommendationResult{UserID: userID, Body: []byte(`{"itemList":[{"itemId":"9"}]}`)}, nil
}

func TestRoutes(t *testing.T) {
	m := metrics.New()
	srv := httptest.NewServer(Setup(handler.NewHandler(staticRecommender{}, m), m.Handler()))
	defer srv.Close()

	tests := []struct {
		path       string
		wantStatus int
		contains   string
	}{
		{path: "/health", wantStatus: 200, contains: `"status":"ok"`},
		{path: "/recommendations?user_id=1", wantStatus: 200, contains: `{"itemList":[{"itemId":"9"}]}`},
		{path: "/recommendations", wantStatus: 400, contains: handler.MissingUserIDMessage},
		{path: "/metrics", wantStatus: 200, contains: "recommendations_requests_total"},
		{path: "/nope", wantStatus: 404},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tt.path)
			if !assert.NoError(t, err) {
				return
			}
			defer resp.Body.Close()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			buf := new(strings.Builder)
			_, _ = io.Copy(buf, resp.Body)
			assert.Contains(t, buf.String(), tt.contains)
		})
	}
}
