package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/actuallystonmai/recommendation-lambda/internal/config"
	"github.com/actuallystonmai/recommendation-lambda/internal/embeddings"
	"github.com/rs/zerolog/log"
)

// ErrMissingEmbeddingsPath is the fatal configuration error raised when
// EMBEDDINGS_S3_PATH is not set. Without embeddings no request can be served.
var ErrMissingEmbeddingsPath = errors.New("missing path to embeddings: EMBEDDINGS_S3_PATH is not set")

type MatrixLoader interface {
	Load(ctx context.Context, loc embeddings.Location) (*embeddings.Matrix, error)
}

// State is the result of a successful initialization. It is built once per
// process and only read afterwards.
type State struct {
	Config *config.Config
	Matrix *embeddings.Matrix
}

// Init validates the configuration and loads the embedding matrix. It must run
// exactly once before any request is served; a non-nil error means the process
// cannot become ready.
func Init(ctx context.Context, cfg *config.Config, loader MatrixLoader) (*State, error) {
	if cfg.EmbeddingsS3Path == "" {
		return nil, ErrMissingEmbeddingsPath
	}
	if cfg.EndpointName == "" {
		log.Warn().Msg("[bootstrap] SAGEMAKER_ENDPOINT_NAME is not set, endpoint invocations will fail")
	}

	loc, err := embeddings.ParseLocation(cfg.EmbeddingsS3Path)
	if err != nil {
		return nil, err
	}

	log.Debug().Str("location", loc.String()).Msg("[bootstrap] downloading user embeddings")
	matrix, err := loader.Load(ctx, loc)
	if err != nil {
		return nil, fmt.Errorf("load embeddings: %w", err)
	}
	log.Debug().Int("rows", matrix.Rows()).Int("cols", matrix.Cols()).Msg("[bootstrap] successfully loaded user embeddings")

	return &State{Config: cfg, Matrix: matrix}, nil
}
