package source

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string]string
	calls   []string
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	key := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	f.calls = append(f.calls, key)
	body, ok := f.objects[key]
	if !ok {
		return nil, &s3types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestParseS3URI(t *testing.T) {
	bucket, key, err := ParseS3URI("s3://billing/exports/2025/07/site-a.zip")
	require.NoError(t, err)
	assert.Equal(t, "billing", bucket)
	assert.Equal(t, "exports/2025/07/site-a.zip", key)

	for _, bad := range []string{"s3://", "s3://bucket", "s3://bucket/", "s3:///key", "/tmp/a.zip"} {
		_, _, err := ParseS3URI(bad)
		assert.Error(t, err, bad)
	}
}

func TestFetch_LocalFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "a.zip")
	require.NoError(t, os.WriteFile(p, []byte("zip"), 0o644))

	repo := NewSourceRepository(Options{})
	local, release, err := repo.Fetch(context.Background(), p)
	require.NoError(t, err)
	release()

	assert.Equal(t, p, local)
	_, err = os.Stat(p)
	assert.NoError(t, err, "local sources must never be removed")
}

func TestFetch_LocalErrors(t *testing.T) {
	repo := NewSourceRepository(Options{})

	_, _, err := repo.Fetch(context.Background(), filepath.Join(t.TempDir(), "missing.zip"))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, _, err = repo.Fetch(context.Background(), t.TempDir())
	assert.ErrorContains(t, err, "is a directory")
}

func TestFetch_S3DownloadsAndReleases(t *testing.T) {
	client := &fakeS3{objects: map[string]string{"billing/2025/site-a.zip": "payload"}}
	repo := NewSourceRepositoryWithClient(client)

	local, release, err := repo.Fetch(context.Background(), "s3://billing/2025/site-a.zip")
	require.NoError(t, err)

	data, err := os.ReadFile(local)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
	assert.True(t, strings.HasSuffix(local, "site-a.zip"))

	release()
	_, err = os.Stat(local)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Equal(t, []string{"billing/2025/site-a.zip"}, client.calls)
}

func TestFetch_S3MissingObject(t *testing.T) {
	repo := NewSourceRepositoryWithClient(&fakeS3{objects: map[string]string{}})

	_, _, err := repo.Fetch(context.Background(), "s3://billing/none.zip")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestFetch_S3ReusesClient(t *testing.T) {
	client := &fakeS3{objects: map[string]string{"billing/a.zip": "a", "billing/b.zip": "b"}}
	repo := NewSourceRepositoryWithClient(client)

	for _, src := range []string{"s3://billing/a.zip", "s3://billing/b.zip"} {
		_, release, err := repo.Fetch(context.Background(), src)
		require.NoError(t, err)
		release()
	}
	assert.Equal(t, []string{"billing/a.zip", "billing/b.zip"}, client.calls)
}
