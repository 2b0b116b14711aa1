package embeddings

import (
	"fmt"
	"io"
	"strings"
)

// Format is the on-disk encoding of the embedding matrix.
type Format string

const (
	FormatAuto   Format = ""
	FormatPickle Format = "pickle"
	FormatNpy    Format = "npy"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatAuto:
		return FormatAuto, nil
	case FormatPickle, "pkl":
		return FormatPickle, nil
	case FormatNpy:
		return FormatNpy, nil
	}
	return "", fmt.Errorf("unknown embeddings format %q", s)
}

// FormatForKey picks npy for keys ending in .npy and pickle otherwise.
func FormatForKey(key string) Format {
	if strings.HasSuffix(strings.ToLower(key), ".npy") {
		return FormatNpy
	}
	return FormatPickle
}

func Decode(r io.Reader, format Format) (*Matrix, error) {
	switch format {
	case FormatNpy:
		return DecodeNpy(r)
	case FormatPickle, FormatAuto:
		return DecodePickle(r)
	}
	return nil, fmt.Errorf("unknown embeddings format %q", format)
}
