package embeddings

import (
	"fmt"
	"strings"
)

// Location names an object in a bucket, e.g. s3://bucket/path/to/embeddings.pickle.
type Location struct {
	Bucket string
	Key    string
}

func (l Location) String() string {
	return fmt.Sprintf("s3://%s/%s", l.Bucket, l.Key)
}

// ParseLocation splits scheme://bucket/key into its bucket and key. The key is
// taken verbatim (no percent decoding, '#' is not a fragment); a query string
// is dropped.
func ParseLocation(uri string) (Location, error) {
	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok || scheme == "" {
		return Location{}, fmt.Errorf("embeddings location %q is not of the form scheme://bucket/key", uri)
	}
	rest, _, _ = strings.Cut(rest, "?")
	bucket, key, _ := strings.Cut(rest, "/")
	loc := Location{
		Bucket: bucket,
		Key:    strings.TrimLeft(key, "/"),
	}
	if loc.Bucket == "" {
		return Location{}, fmt.Errorf("embeddings location %q has no bucket", uri)
	}
	if loc.Key == "" {
		return Location{}, fmt.Errorf("embeddings location %q has no object key", uri)
	}
	return loc, nil
}
