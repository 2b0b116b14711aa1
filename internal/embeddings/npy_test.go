package embeddings

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNpyRoundTrip(t *testing.T) {
	want, err := NewMatrix([][]float64{{1.5, 2.0, -3.25}, {0.5, -1.0, 4.0}})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteNpy(&buf, want))

	got, err := DecodeNpy(&buf)
	require.NoError(t, err)
	require.Equal(t, want.Rows(), got.Rows())
	require.Equal(t, want.Cols(), got.Cols())
	for u := int64(1); u <= int64(want.Rows()); u++ {
		w, _ := want.Row(u)
		g, _ := got.Row(u)
		assert.Equal(t, w, g)
	}
}

func TestDecodeNpyInvalid(t *testing.T) {
	_, err := DecodeNpy(bytes.NewReader([]byte("definitely not numpy")))
	assert.Error(t, err)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, FormatNpy, FormatForKey("models/user_embeddings.NPY"))
	assert.Equal(t, FormatPickle, FormatForKey("models/user_embeddings.pickle"))
	assert.Equal(t, FormatPickle, FormatForKey("models/user_embeddings"))

	f, err := ParseFormat("pkl")
	require.NoError(t, err)
	assert.Equal(t, FormatPickle, f)

	_, err = ParseFormat("parquet")
	assert.Error(t, err)
}
