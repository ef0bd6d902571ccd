package s3source

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/njstats/internal/source"
)

// fakeS3 serves GetObject from an in-memory key → body map using path-style URLs.
type fakeS3 struct {
	objects map[string][]byte
	paths   []string
}

func (f *fakeS3) RoundTrip(req *http.Request) (*http.Response, error) {
	f.paths = append(f.paths, req.URL.Path)
	parts := strings.SplitN(strings.TrimPrefix(req.URL.Path, "/"), "/", 2)
	key := ""
	if len(parts) == 2 {
		key = parts[1]
	}
	if req.Method != http.MethodGet {
		return &http.Response{StatusCode: http.StatusNotImplemented, Body: io.NopCloser(bytes.NewReader(nil)), Header: http.Header{}}, nil
	}
	body, ok := f.objects[key]
	if !ok {
		xml := `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`
		return &http.Response{
			StatusCode: http.StatusNotFound,
			Body:       io.NopCloser(strings.NewReader(xml)),
			Header:     http.Header{"Content-Type": {"application/xml"}},
		}, nil
	}
	return &http.Response{
		StatusCode:    http.StatusOK,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Header:        http.Header{"Content-Type": {"text/csv"}},
	}, nil
}

func newTestProvider(t *testing.T, prefix string, objects map[string][]byte) (*Provider, *fakeS3) {
	t.Helper()
	rt := &fakeS3{objects: objects}
	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion("us-east-1"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("AKIA", "SECRET", "")),
	)
	require.NoError(t, err)
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.HTTPClient = &http.Client{Transport: rt}
		o.UsePathStyle = true
		o.BaseEndpoint = aws.String("https://mock.s3.local")
	})
	return NewWithClient(client, "nj-data", prefix, source.DefaultManifest()), rt
}

func TestProvider_Open(t *testing.T) {
	p, rt := newTestProvider(t, "/2024/", map[string][]byte{
		"2024/SATmapRW.csv": []byte("Score,Percentile\n500,50\n"),
	})

	data, err := source.ReadAll(context.Background(), p, source.ReadingPercentiles)
	require.NoError(t, err)
	assert.Equal(t, "Score,Percentile\n500,50\n", string(data))
	require.NotEmpty(t, rt.paths)
	assert.Equal(t, "/nj-data/2024/SATmapRW.csv", rt.paths[0])
}

func TestProvider_OpenMissing(t *testing.T) {
	p, _ := newTestProvider(t, "", map[string][]byte{})

	_, err := p.Open(context.Background(), source.Hospitals)
	require.Error(t, err)
	assert.ErrorIs(t, err, source.ErrSourceNotFound)
}

func TestProvider_OpenUnknownName(t *testing.T) {
	p, _ := newTestProvider(t, "", map[string][]byte{})

	_, err := p.Open(context.Background(), "weather")
	assert.ErrorIs(t, err, source.ErrUnknownSource)
}

func TestParseURI(t *testing.T) {
	bucket, prefix, err := ParseURI("s3://nj-data/raw/2024/")
	require.NoError(t, err)
	assert.Equal(t, "nj-data", bucket)
	assert.Equal(t, "raw/2024", prefix)

	bucket, prefix, err = ParseURI("s3://nj-data")
	require.NoError(t, err)
	assert.Equal(t, "nj-data", bucket)
	assert.Empty(t, prefix)

	_, _, err = ParseURI("gs://nj-data/raw")
	assert.Error(t, err)

	_, _, err = ParseURI("s3:///raw")
	assert.Error(t, err)
}
