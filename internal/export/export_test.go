package export

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"calcnerd/internal/config"
	"calcnerd/internal/history"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	inputs []*s3.PutObjectInput
	bodies [][]byte
	err    error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.inputs = append(f.inputs, in)
	f.bodies = append(f.bodies, body)
	return &s3.PutObjectOutput{}, nil
}

var sample = []history.Entry{
	{Expr: "3 + 4", Result: 7},
	{Expr: "7 × 2", Result: 14},
}

func TestParseTarget(t *testing.T) {
	tests := []struct {
		in   string
		want Target
	}{
		{"s3://bucket", Target{Bucket: "bucket"}},
		{"s3://bucket/exports/2026/", Target{Bucket: "bucket", Prefix: "exports/2026"}},
		{"out", Target{Dir: "out"}},
		{"out/mine.txt", Target{Dir: "out", Name: "mine.txt"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTarget(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "s3://", "s3:///prefix", "gs://bucket"} {
		_, err := ParseTarget(bad)
		assert.True(t, errors.Is(err, ErrInvalidTarget), "ParseTarget(%q) = %v", bad, err)
	}
}

func TestFileSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	loc, err := History(context.Background(), &FileSink{Dir: dir}, DefaultName, sample)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, DefaultName), loc)

	data, err := os.ReadFile(loc)
	require.NoError(t, err)
	assert.Equal(t, "3 + 4 = 7\n7 × 2 = 14", string(data))
}

func TestS3SinkUploads(t *testing.T) {
	fake := &fakePutter{}
	sink := NewS3SinkWithClient(fake, "calc", "team/exports")

	loc, err := History(context.Background(), sink, DefaultName, sample)
	require.NoError(t, err)
	assert.Equal(t, "s3://calc/team/exports/calculator-history.txt", loc)

	require.Len(t, fake.inputs, 1)
	in := fake.inputs[0]
	assert.Equal(t, "calc", aws.ToString(in.Bucket))
	assert.Equal(t, "team/exports/calculator-history.txt", aws.ToString(in.Key))
	assert.Equal(t, ContentType, aws.ToString(in.ContentType))
	assert.Equal(t, "3 + 4 = 7\n7 × 2 = 14", string(fake.bodies[0]))
}

func TestS3SinkError(t *testing.T) {
	sink := NewS3SinkWithClient(&fakePutter{err: errors.New("access denied")}, "calc", "")
	_, err := sink.Write(context.Background(), DefaultName, []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3://calc/calculator-history.txt")
}

func TestResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("default directory", func(t *testing.T) {
		dir := t.TempDir()
		sink, name, err := Resolve(ctx, "", config.ExportConfig{Dir: dir})
		require.NoError(t, err)
		assert.Equal(t, DefaultName, name)
		fs, ok := sink.(*FileSink)
		require.True(t, ok)
		assert.Equal(t, dir, fs.Dir)
	})

	t.Run("explicit file", func(t *testing.T) {
		sink, name, err := Resolve(ctx, "/tmp/x/today.txt", config.ExportConfig{Dir: "."})
		require.NoError(t, err)
		assert.Equal(t, "today.txt", name)
		assert.Equal(t, "/tmp/x", sink.(*FileSink).Dir)
	})

	t.Run("configured bucket", func(t *testing.T) {
		cfg := config.ExportConfig{S3: config.S3Config{
			Bucket: "calc", Prefix: "p", Region: "eu-west-1",
			AccessKeyID: "AKIA", SecretAccessKey: "SECRET",
		}}
		sink, _, err := Resolve(ctx, "", cfg)
		require.NoError(t, err)
		s3sink, ok := sink.(*S3Sink)
		require.True(t, ok)
		assert.Equal(t, "p/x.txt", s3sink.Key("x.txt"))
	})

	t.Run("target overrides bucket", func(t *testing.T) {
		cfg := config.ExportConfig{S3: config.S3Config{AccessKeyID: "AKIA", SecretAccessKey: "SECRET"}}
		sink, _, err := Resolve(ctx, "s3://other", cfg)
		require.NoError(t, err)
		assert.Equal(t, "x.txt", sink.(*S3Sink).Key("x.txt"))
	})
}
