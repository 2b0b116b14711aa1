package config

import (
	"testing"
	"time"

	"github.com/actuallystonmai/recommendation-lambda/internal/domain"
	"github.com/actuallystonmai/recommendation-lambda/internal/embeddings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SAGEMAKER_ENDPOINT_NAME", "")
	t.Setenv("EMBEDDINGS_S3_PATH", "")
	t.Setenv("RESPONSE_SHAPE", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.EndpointName)
	assert.Empty(t, cfg.EmbeddingsS3Path)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)

	shape, err := cfg.Shape()
	require.NoError(t, err)
	assert.Equal(t, domain.ShapeItemList, shape)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SAGEMAKER_ENDPOINT_NAME", "knn-endpoint")
	t.Setenv("EMBEDDINGS_S3_PATH", "s3://bucket/embeddings.npy")
	t.Setenv("EMBEDDINGS_FORMAT", "npy")
	t.Setenv("RESPONSE_SHAPE", "movies")
	t.Setenv("PORT", "9090")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("DB_POOL_SIZE", "3")
	t.Setenv("LOG_LEVEL", "info")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "knn-endpoint", cfg.EndpointName)
	assert.Equal(t, "s3://bucket/embeddings.npy", cfg.EmbeddingsS3Path)
	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, 3, cfg.DBPoolSize)

	shape, _ := cfg.Shape()
	assert.Equal(t, domain.ShapeMovies, shape)
	format, _ := cfg.Format()
	assert.Equal(t, embeddings.FormatNpy, format)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"RESPONSE_SHAPE":    "table",
		"EMBEDDINGS_FORMAT": "parquet",
		"LOG_LEVEL":         "loud",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
