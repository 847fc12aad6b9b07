package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/diillson/billing-usage-report-go/internal/domain/repository"
)

const s3Scheme = "s3://"

// Options configures access to remote sources.
type Options struct {
	Region   string
	Endpoint string
}

// ObjectGetter is the subset of the S3 client used to download archives.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// SourceRepositoryImpl implementa o SourceRepository para caminhos locais e
// objetos S3 (s3://bucket/key). Sources are fetched one at a time, so it is
// not safe for concurrent use.
type SourceRepositoryImpl struct {
	opts   Options
	client ObjectGetter
}

// NewSourceRepository cria uma nova implementação do SourceRepository.
// The S3 client is only built when an s3:// source is requested.
func NewSourceRepository(opts Options) *SourceRepositoryImpl {
	return &SourceRepositoryImpl{opts: opts}
}

// NewSourceRepositoryWithClient uses an existing S3 client.
func NewSourceRepositoryWithClient(client ObjectGetter) *SourceRepositoryImpl {
	return &SourceRepositoryImpl{client: client}
}

var _ repository.SourceRepository = (*SourceRepositoryImpl)(nil)

// Fetch resolves source to a local file.
func (r *SourceRepositoryImpl) Fetch(ctx context.Context, source string) (string, func(), error) {
	if !IsRemote(source) {
		info, err := os.Stat(source)
		if err != nil {
			return "", nil, fmt.Errorf("error accessing source file: %w", err)
		}
		if info.IsDir() {
			return "", nil, fmt.Errorf("%s is a directory, not a file", source)
		}
		return source, func() {}, nil
	}

	bucket, key, err := ParseS3URI(source)
	if err != nil {
		return "", nil, err
	}
	client, err := r.getClient(ctx)
	if err != nil {
		return "", nil, err
	}
	return download(ctx, client, bucket, key)
}

func (r *SourceRepositoryImpl) getClient(ctx context.Context) (ObjectGetter, error) {
	if r.client != nil {
		return r.client, nil
	}

	var loadOpts []func(*config.LoadOptions) error
	if r.opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(r.opts.Region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	endpoint := r.opts.Endpoint
	r.client = s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	return r.client, nil
}

// download copies the object into a temporary file removed by the returned func.
func download(ctx context.Context, client ObjectGetter, bucket, key string) (string, func(), error) {
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nf *s3types.NoSuchKey
		if errors.As(err, &nf) {
			return "", nil, fmt.Errorf("object s3://%s/%s not found: %w", bucket, key, err)
		}
		return "", nil, fmt.Errorf("error downloading s3://%s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	f, err := os.CreateTemp("", "usage-source-*-"+path.Base(key))
	if err != nil {
		return "", nil, fmt.Errorf("error creating temporary file: %w", err)
	}
	release := func() { os.Remove(f.Name()) }

	if _, err := io.Copy(f, out.Body); err != nil {
		f.Close()
		release()
		return "", nil, fmt.Errorf("error downloading s3://%s/%s: %w", bucket, key, err)
	}
	if err := f.Close(); err != nil {
		release()
		return "", nil, err
	}
	return f.Name(), release, nil
}

// IsRemote reports whether source points to S3.
func IsRemote(source string) bool {
	return strings.HasPrefix(strings.ToLower(source), s3Scheme)
}

// ParseS3URI splits s3://bucket/key.
func ParseS3URI(uri string) (string, string, error) {
	if !IsRemote(uri) {
		return "", "", fmt.Errorf("not an s3 uri: %s", uri)
	}
	rest := uri[len(s3Scheme):]
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || strings.Trim(key, "/") == "" {
		return "", "", fmt.Errorf("invalid s3 uri %q: expected s3://bucket/key", uri)
	}
	return bucket, key, nil
}
