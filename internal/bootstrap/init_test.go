package bootstrap

import (
	"context"
	"errors"
	"testing"

	"github.com/actuallystonmai/recommendation-lambda/internal/config"
	"github.com/actuallystonmai/recommendation-lambda/internal/embeddings"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	m.Run()
}

type fakeLoader struct {
	locs   []embeddings.Location
	matrix *embeddings.Matrix
	err    error
}

func (f *fakeLoader) Load(_ context.Context, loc embeddings.Location) (*embeddings.Matrix, error) {
	f.locs = append(f.locs, loc)
	return f.matrix, f.err
}

func TestInitMissingEmbeddingsPath(t *testing.T) {
	loader := &fakeLoader{}

	state, err := Init(context.Background(), &config.Config{EndpointName: "knn"}, loader)
	assert.ErrorIs(t, err, ErrMissingEmbeddingsPath)
	assert.Nil(t, state)
	assert.Empty(t, loader.locs)
}

func TestNewMissingEmbeddingsPath(t *testing.T) {
	app, err := New(context.Background(), &config.Config{})
	assert.ErrorIs(t, err, ErrMissingEmbeddingsPath)
	assert.Nil(t, app)
}

func TestInitLoadsMatrix(t *testing.T) {
	m, err := embeddings.NewMatrix([][]float64{{1, 2}, {3, 4}})
	require.NoError(t, err)
	loader := &fakeLoader{matrix: m}
	cfg := &config.Config{EmbeddingsS3Path: "s3://models/knn/user_embeddings.pickle"}

	state, err := Init(context.Background(), cfg, loader)
	require.NoError(t, err)

	assert.Same(t, m, state.Matrix)
	assert.Same(t, cfg, state.Config)
	assert.Equal(t, []embeddings.Location{{Bucket: "models", Key: "knn/user_embeddings.pickle"}}, loader.locs)
}

func TestInitDefersMissingEndpointName(t *testing.T) {
	m, err := embeddings.NewMatrix([][]float64{{1}})
	require.NoError(t, err)

	_, err = Init(context.Background(), &config.Config{EmbeddingsS3Path: "s3://b/k"}, &fakeLoader{matrix: m})
	assert.NoError(t, err)
}

func TestInitLoaderError(t *testing.T) {
	cause := errors.New("AccessDenied")
	_, err := Init(context.Background(), &config.Config{EmbeddingsS3Path: "s3://b/k"}, &fakeLoader{err: cause})
	assert.ErrorIs(t, err, cause)
}

func TestInitBadLocation(t *testing.T) {
	loader := &fakeLoader{}
	_, err := Init(context.Background(), &config.Config{EmbeddingsS3Path: "bucket-without-scheme"}, loader)
	assert.Error(t, err)
	assert.Empty(t, loader.locs)
}
