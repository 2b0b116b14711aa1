package embeddings

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var ErrUserOutOfRange = errors.New("user id out of range")

// Matrix is the per-user embedding matrix. Row i holds the embedding of user
// i+1. It is never mutated after construction and is safe for concurrent reads.
type Matrix struct {
	dense *mat.Dense
}

// NewMatrix copies rows into a new Matrix. All rows must have the same, non-zero length.
func NewMatrix(rows [][]float64) (*Matrix, error) {
	if len(rows) == 0 {
		return nil, errors.New("embedding matrix has no rows")
	}
	cols := len(rows[0])
	if cols == 0 {
		return nil, errors.New("embedding matrix has no columns")
	}
	data := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("embedding matrix row %d has %d columns, expected %d", i, len(row), cols)
		}
		data = append(data, row...)
	}
	return &Matrix{dense: mat.NewDense(len(rows), cols, data)}, nil
}

func newMatrixFromData(rows, cols int, data []float64) (*Matrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("embedding matrix has shape (%d, %d)", rows, cols)
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("embedding matrix data has %d values, expected %d", len(data), rows*cols)
	}
	return &Matrix{dense: mat.NewDense(rows, cols, data)}, nil
}

func (m *Matrix) Rows() int {
	r, _ := m.dense.Dims()
	return r
}

func (m *Matrix) Cols() int {
	_, c := m.dense.Dims()
	return c
}

// Row returns a copy of the embedding for the 1-based userID.
func (m *Matrix) Row(userID int64) ([]float64, error) {
	if userID < 1 || userID > int64(m.Rows()) {
		return nil, fmt.Errorf("%w: %d not in [1, %d]", ErrUserOutOfRange, userID, m.Rows())
	}
	return mat.Row(nil, int(userID-1), m.dense), nil
}

// RowCSV returns the embedding for userID as a single CSV line.
func (m *Matrix) RowCSV(userID int64) ([]byte, error) {
	row, err := m.Row(userID)
	if err != nil {
		return nil, err
	}
	return EncodeCSV(row), nil
}
