package embeddings

import (
	"math"
	"math/rand"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeCSV(t *testing.T) {
	got := EncodeCSV([]float64{1.5, 2.0, -3.25})
	assert.Equal(t, "1.500000000000000000e+00,2.000000000000000000e+00,-3.250000000000000000e+00\n", string(got))
}

func TestEncodeCSVSpecialValues(t *testing.T) {
	got := EncodeCSV([]float64{0, math.NaN(), math.Inf(1), math.Inf(-1), 1e-300, 123456.789})
	assert.Equal(t,
		"0.000000000000000000e+00,nan,inf,-inf,1.000000000000000025e-300,1.234567890000000043e+05\n",
		string(got))
}

func TestEncodeCSVEmpty(t *testing.T) {
	assert.Equal(t, "\n", string(EncodeCSV(nil)))
}

func TestEncodeCSVRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, n := range []int{1, 2, 10, 100, 512} {
		vec := make([]float64, n)
		for i := range vec {
			vec[i] = rng.NormFloat64() * math.Pow(10, float64(rng.Intn(20)-10))
		}

		line := string(EncodeCSV(vec))
		require.True(t, strings.HasSuffix(line, "\n"))
		require.Equal(t, 1, strings.Count(line, "\n"))

		fields := strings.Split(strings.TrimSuffix(line, "\n"), ",")
		require.Len(t, fields, n)
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			require.NoError(t, err)
			assert.Equal(t, vec[i], v, "index %d of %d", i, n)
		}
	}
}
