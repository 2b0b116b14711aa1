package embeddings

import (
	"fmt"
	"io"

	"github.com/sbinet/npyio/npy"
	"gonum.org/v1/gonum/mat"
)

// DecodeNpy reads a two-dimensional float64 or float32 .npy array.
func DecodeNpy(r io.Reader) (*Matrix, error) {
	rd, err := npy.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("read npy header: %w", err)
	}
	shape := rd.Header.Descr.Shape
	if len(shape) != 2 {
		return nil, fmt.Errorf("npy: expected 2 dimensions, got %d", len(shape))
	}
	rows, cols := shape[0], shape[1]
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("npy: embedding matrix has shape (%d, %d)", rows, cols)
	}

	var data []float64
	switch rd.Header.Descr.Type {
	case "<f8", "f8", "float64":
		if err := rd.Read(&data); err != nil {
			return nil, fmt.Errorf("read npy data: %w", err)
		}
	case "<f4", "f4", "float32":
		var f32 []float32
		if err := rd.Read(&f32); err != nil {
			return nil, fmt.Errorf("read npy data: %w", err)
		}
		data = make([]float64, len(f32))
		for i, v := range f32 {
			data[i] = float64(v)
		}
	default:
		return nil, fmt.Errorf("npy: unsupported dtype %q", rd.Header.Descr.Type)
	}

	if rd.Header.Descr.Fortran {
		if len(data) != rows*cols {
			return nil, fmt.Errorf("npy: %d values for shape (%d, %d)", len(data), rows, cols)
		}
		// stored column-major; mat.Dense is row-major
		t := mat.NewDense(cols, rows, data)
		data = mat.DenseCopyOf(t.T()).RawMatrix().Data
	}
	return newMatrixFromData(rows, cols, data)
}

// WriteNpy writes m as a C-ordered float64 .npy array.
func WriteNpy(w io.Writer, m *Matrix) error {
	if err := npy.Write(w, m.dense); err != nil {
		return fmt.Errorf("write npy: %w", err)
	}
	return nil
}
