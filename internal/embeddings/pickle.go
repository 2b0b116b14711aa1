package embeddings

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"strings"

	"github.com/nlpodyssey/gopickle/pickle"
	"github.com/nlpodyssey/gopickle/types"
)

// DecodePickle reads a pickled two-dimensional numpy array (or a pickled list
// of equally sized lists of numbers) and returns it as a Matrix.
func DecodePickle(r io.Reader) (*Matrix, error) {
	u := pickle.NewUnpickler(r)
	u.FindClass = findNumpyClass
	obj, err := u.Load()
	if err != nil {
		return nil, fmt.Errorf("unpickle embeddings: %w", err)
	}

	switch v := obj.(type) {
	case *ndarray:
		return v.matrix()
	case *types.List:
		return matrixFromSequence([]interface{}(*v))
	case *types.Tuple:
		return matrixFromSequence([]interface{}(*v))
	}
	return nil, fmt.Errorf("unpickle embeddings: unsupported object %T", obj)
}

// findNumpyClass resolves the globals numpy emits when pickling an ndarray.
func findNumpyClass(module, name string) (interface{}, error) {
	switch module + "." + name {
	case "numpy.ndarray":
		return ndarrayClass{}, nil
	case "numpy.dtype":
		return dtypeClass{}, nil
	case "numpy.core.multiarray._reconstruct", "numpy._core.multiarray._reconstruct":
		return reconstructFunc{}, nil
	case "numpy.core.numeric._frombuffer", "numpy._core.numeric._frombuffer":
		return frombufferFunc{}, nil
	case "_codecs.encode":
		return codecsEncodeFunc{}, nil
	}
	return nil, fmt.Errorf("unsupported pickle global %s.%s", module, name)
}

type ndarrayClass struct{}

// reconstructFunc is numpy.core.multiarray._reconstruct(subtype, shape, dtype).
// It returns an empty array that is filled in by the following BUILD opcode.
type reconstructFunc struct{}

func (reconstructFunc) Call(args ...interface{}) (interface{}, error) {
	if len(args) == 0 {
		return nil, errors.New("_reconstruct: missing subtype")
	}
	if _, ok := args[0].(ndarrayClass); !ok {
		return nil, fmt.Errorf("_reconstruct: unsupported subtype %T", args[0])
	}
	return &ndarray{}, nil
}

// frombufferFunc is numpy.core.numeric._frombuffer(buffer, dtype, shape, order),
// used by numpy for pickle protocol 5.
type frombufferFunc struct{}

func (frombufferFunc) Call(args ...interface{}) (interface{}, error) {
	if len(args) != 4 {
		return nil, fmt.Errorf("_frombuffer: expected 4 arguments, got %d", len(args))
	}
	data, err := rawBytes(args[0])
	if err != nil {
		return nil, fmt.Errorf("_frombuffer: %w", err)
	}
	dt, ok := args[1].(*dtype)
	if !ok {
		return nil, fmt.Errorf("_frombuffer: unexpected dtype %T", args[1])
	}
	shape, err := intsFrom(args[2])
	if err != nil {
		return nil, fmt.Errorf("_frombuffer: shape: %w", err)
	}
	order, _ := args[3].(string)
	return &ndarray{shape: shape, dtype: dt, fortran: order == "F", data: data}, nil
}

// codecsEncodeFunc is _codecs.encode(str, "latin1"), which python 3 uses to
// pickle bytes with protocol 2.
type codecsEncodeFunc struct{}

func (codecsEncodeFunc) Call(args ...interface{}) (interface{}, error) {
	if len(args) == 0 {
		return nil, errors.New("_codecs.encode: missing argument")
	}
	s, ok := args[0].(string)
	if !ok {
		return nil, fmt.Errorf("_codecs.encode: unexpected argument %T", args[0])
	}
	if len(args) > 1 {
		if enc, _ := args[1].(string); enc != "" && enc != "latin1" && enc != "latin-1" {
			return nil, fmt.Errorf("_codecs.encode: unsupported encoding %q", enc)
		}
	}
	return latin1(s)
}

func latin1(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xff {
			return nil, fmt.Errorf("rune %U is not latin1", r)
		}
		out = append(out, byte(r))
	}
	return out, nil
}

type dtype struct {
	kind  byte // 'f'
	size  int
	order binary.ByteOrder
}

// dtypeClass is numpy.dtype(obj, align, copy).
type dtypeClass struct{}

func (dtypeClass) Call(args ...interface{}) (interface{}, error) {
	if len(args) == 0 {
		return nil, errors.New("dtype: missing type string")
	}
	typ, ok := args[0].(string)
	if !ok {
		return nil, fmt.Errorf("dtype: unexpected type %T", args[0])
	}
	return parseDtype(typ)
}

func parseDtype(typ string) (*dtype, error) {
	dt := &dtype{order: binary.LittleEndian}
	switch {
	case strings.HasPrefix(typ, ">"):
		dt.order = binary.BigEndian
		typ = typ[1:]
	case strings.HasPrefix(typ, "<"), strings.HasPrefix(typ, "="), strings.HasPrefix(typ, "|"):
		typ = typ[1:]
	}
	switch typ {
	case "f8", "float64":
		dt.kind, dt.size = 'f', 8
	case "f4", "float32":
		dt.kind, dt.size = 'f', 4
	default:
		return nil, fmt.Errorf("dtype: unsupported type %q", typ)
	}
	return dt, nil
}

// PySetState applies the dtype state tuple (version, byteorder, ...).
func (d *dtype) PySetState(state interface{}) error {
	t, ok := state.(*types.Tuple)
	if !ok || len(*t) < 2 {
		return fmt.Errorf("dtype: unexpected state %T", state)
	}
	switch (*t)[1] {
	case ">":
		d.order = binary.BigEndian
	case "<", "=", "|":
		d.order = binary.LittleEndian
	}
	return nil
}

type ndarray struct {
	shape   []int
	dtype   *dtype
	fortran bool
	data    []byte
}

// PySetState applies the ndarray state (version, shape, dtype, is_fortran, rawdata).
func (a *ndarray) PySetState(state interface{}) error {
	t, ok := state.(*types.Tuple)
	if !ok {
		return fmt.Errorf("ndarray: unexpected state %T", state)
	}
	items := []interface{}(*t)
	if len(items) == 5 {
		items = items[1:]
	}
	if len(items) != 4 {
		return fmt.Errorf("ndarray: state has %d fields", len(items))
	}

	shape, err := intsFrom(items[0])
	if err != nil {
		return fmt.Errorf("ndarray: shape: %w", err)
	}
	dt, ok := items[1].(*dtype)
	if !ok {
		return fmt.Errorf("ndarray: unexpected dtype %T", items[1])
	}
	fortran, _ := items[2].(bool)
	data, err := rawBytes(items[3])
	if err != nil {
		return fmt.Errorf("ndarray: %w", err)
	}

	a.shape, a.dtype, a.fortran, a.data = shape, dt, fortran, data
	return nil
}

func (a *ndarray) matrix() (*Matrix, error) {
	if a.dtype == nil {
		return nil, errors.New("ndarray: missing state")
	}
	if len(a.shape) != 2 {
		return nil, fmt.Errorf("ndarray: expected 2 dimensions, got %d", len(a.shape))
	}
	rows, cols := a.shape[0], a.shape[1]
	n := rows * cols
	if len(a.data) != n*a.dtype.size {
		return nil, fmt.Errorf("ndarray: %d bytes of data for shape (%d, %d) and item size %d",
			len(a.data), rows, cols, a.dtype.size)
	}

	values := make([]float64, n)
	for i := range values {
		chunk := a.data[i*a.dtype.size : (i+1)*a.dtype.size]
		var v float64
		if a.dtype.size == 8 {
			v = math.Float64frombits(a.dtype.order.Uint64(chunk))
		} else {
			v = float64(math.Float32frombits(a.dtype.order.Uint32(chunk)))
		}
		if a.fortran {
			// column-major: element i is (i%rows, i/rows)
			values[(i%rows)*cols+i/rows] = v
		} else {
			values[i] = v
		}
	}
	return newMatrixFromData(rows, cols, values)
}

func matrixFromSequence(seq []interface{}) (*Matrix, error) {
	rows := make([][]float64, len(seq))
	for i, item := range seq {
		var elems []interface{}
		switch row := item.(type) {
		case *types.List:
			elems = []interface{}(*row)
		case *types.Tuple:
			elems = []interface{}(*row)
		default:
			return nil, fmt.Errorf("row %d: unexpected %T", i, item)
		}
		rows[i] = make([]float64, len(elems))
		for j, e := range elems {
			f, err := toFloat(e)
			if err != nil {
				return nil, fmt.Errorf("row %d column %d: %w", i, j, err)
			}
			rows[i][j] = f
		}
	}
	return NewMatrix(rows)
}

func toFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case bool:
		if n {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("unexpected %T", v)
}

func intsFrom(v interface{}) ([]int, error) {
	t, ok := v.(*types.Tuple)
	if !ok {
		return nil, fmt.Errorf("expected tuple, got %T", v)
	}
	out := make([]int, len(*t))
	for i, e := range *t {
		switch n := e.(type) {
		case int:
			out[i] = n
		case int64:
			out[i] = int(n)
		default:
			return nil, fmt.Errorf("unexpected dimension %T", e)
		}
	}
	return out, nil
}

// rawBytes accepts bytes, bytearray-like values or a latin1 string.
func rawBytes(v interface{}) ([]byte, error) {
	if s, ok := v.(string); ok {
		return latin1(s)
	}
	rv := reflect.Indirect(reflect.ValueOf(v))
	if rv.IsValid() && rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
		return rv.Bytes(), nil
	}
	return nil, fmt.Errorf("unexpected raw data %T", v)
}
