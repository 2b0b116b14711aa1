package embeddings

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

// ObjectGetter is the subset of the S3 client the loader needs.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// NewS3Client builds an S3 client. A non-empty endpoint targets an
// S3-compatible store (e.g. MinIO) with path-style addressing.
func NewS3Client(cfg aws.Config, endpoint string) *s3.Client {
	if endpoint == "" {
		return s3.NewFromConfig(cfg)
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})
}

// Loader downloads the embedding object to a local file and decodes it.
type Loader struct {
	client    ObjectGetter
	localPath string
	format    Format
}

func NewLoader(client ObjectGetter, localPath string, format Format) *Loader {
	if localPath == "" {
		localPath = filepath.Join(os.TempDir(), "embeddings.pickle")
	}
	return &Loader{client: client, localPath: localPath, format: format}
}

// Load downloads loc and decodes it. There are no retries: any storage or
// decode error is returned to the caller.
func (l *Loader) Load(ctx context.Context, loc Location) (*Matrix, error) {
	log.Debug().Str("bucket", loc.Bucket).Str("key", loc.Key).Str("path", l.localPath).
		Msg("[embeddings] downloading user embeddings")
	if err := l.download(ctx, loc); err != nil {
		return nil, err
	}

	f, err := os.Open(l.localPath)
	if err != nil {
		return nil, fmt.Errorf("open embeddings file: %w", err)
	}
	defer f.Close()

	format := l.format
	if format == FormatAuto {
		format = FormatForKey(loc.Key)
	}
	m, err := Decode(bufio.NewReader(f), format)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", loc, err)
	}
	return m, nil
}

func (l *Loader) download(ctx context.Context, loc Location) error {
	out, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(loc.Bucket),
		Key:    aws.String(loc.Key),
	})
	if err != nil {
		return fmt.Errorf("download %s: %w", loc, err)
	}
	defer out.Body.Close()

	f, err := os.Create(l.localPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", l.localPath, err)
	}
	if _, err := io.Copy(f, out.Body); err != nil {
		f.Close()
		return fmt.Errorf("download %s: %w", loc, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", l.localPath, err)
	}
	return nil
}
