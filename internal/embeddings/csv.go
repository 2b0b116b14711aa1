package embeddings

import (
	"math"
	"strconv"
)

// EncodeCSV writes vec as one comma separated line terminated by '\n'.
// Values use %.18e, the default numpy savetxt format.
func EncodeCSV(vec []float64) []byte {
	buf := make([]byte, 0, len(vec)*26+1)
	for i, v := range vec {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = appendFloat(buf, v)
	}
	return append(buf, '\n')
}

func appendFloat(buf []byte, v float64) []byte {
	switch {
	case math.IsNaN(v):
		return append(buf, "nan"...)
	case math.IsInf(v, 1):
		return append(buf, "inf"...)
	case math.IsInf(v, -1):
		return append(buf, "-inf"...)
	}
	return strconv.AppendFloat(buf, v, 'e', 18, 64)
}
