package seeds

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/actuallystonmai/recommendation-lambda/internal/embeddings"
	"github.com/rs/zerolog/log"
)

// Embeddings returns a deterministic rows x cols matrix of standard normal samples.
func Embeddings(rows, cols int) (*embeddings.Matrix, error) {
	rng := rand.New(rand.NewSource(42))

	data := make([][]float64, rows)
	for i := range data {
		data[i] = make([]float64, cols)
		for j := range data[i] {
			data[i][j] = rng.NormFloat64()
		}
	}
	return embeddings.NewMatrix(data)
}

// Setup writes a sample embedding matrix to path in .npy format, ready to be
// uploaded to the EMBEDDINGS_S3_PATH bucket.
func Setup(path string, rows, cols int) error {
	log.Info().Int("rows", rows).Int("cols", cols).Msg("[seed] generating user embeddings")
	m, err := Embeddings(rows, cols)
	if err != nil {
		return fmt.Errorf("generate embeddings: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := embeddings.WriteNpy(f, m); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}

	log.Info().Str("path", path).Msg("[seed] seeding complete")
	return nil
}
