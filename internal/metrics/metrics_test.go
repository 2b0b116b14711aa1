package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRequest(t *testing.T) {
	m := New()
	m.ObserveRequest(OutcomeOK)
	m.ObserveRequest(OutcomeOK)
	m.ObserveRequest(OutcomeMissingUserID)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues(OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues(OutcomeMissingUserID)))
}

func TestObserveInvocation(t *testing.T) {
	m := New()
	m.ObserveInvocation(10*time.Millisecond, nil)
	m.ObserveInvocation(20*time.Millisecond, errors.New("boom"))

	assert.Equal(t, 2, testutil.CollectAndCount(m.invocationDuration))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest(OutcomeOK)
		m.ObserveInvocation(time.Second, nil)
		m.SetMatrixRows(10)
	})
}

func TestHandler(t *testing.T) {
	m := New()
	m.SetMatrixRows(943)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "recommendations_embedding_matrix_rows 943"))
}
