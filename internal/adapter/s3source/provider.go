// Package s3source reads dataset files from an S3-compatible bucket.
package s3source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/couchcryptid/njstats/internal/source"
)

const defaultRegion = "us-east-1"

// Config holds the bucket location and client overrides.
type Config struct {
	Bucket    string
	Prefix    string
	Region    string
	Endpoint  string // optional, e.g. a MinIO URL
	PathStyle bool
}

// Provider implements source.Provider over S3 objects named
// <prefix>/<manifest file>.
type Provider struct {
	client   *s3.Client
	bucket   string
	prefix   string
	manifest source.Manifest
}

// ParseURI splits "s3://bucket/some/prefix" into bucket and prefix.
func ParseURI(uri string) (bucket, prefix string, err error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", "", fmt.Errorf("parse source uri: %w", err)
	}
	if u.Scheme != "s3" || u.Host == "" {
		return "", "", fmt.Errorf("source uri %q: expected s3://bucket[/prefix]", uri)
	}
	return u.Host, strings.Trim(u.Path, "/"), nil
}

// New builds a Provider using the default AWS credential chain.
func New(ctx context.Context, cfg Config, manifest source.Manifest) (*Provider, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return NewWithClient(client, cfg.Bucket, cfg.Prefix, manifest), nil
}

// NewWithClient wraps an existing S3 client.
func NewWithClient(client *s3.Client, bucket, prefix string, manifest source.Manifest) *Provider {
	return &Provider{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/"), manifest: manifest}
}

// Open implements source.Provider. The caller must close the returned body.
func (p *Provider) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	file, err := p.manifest.File(name)
	if err != nil {
		return nil, err
	}
	key := file
	if p.prefix != "" {
		key = path.Join(p.prefix, file)
	}

	out, err := p.client.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(p.bucket), Key: aws.String(key)})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%s (s3://%s/%s): %w", name, p.bucket, key, source.ErrSourceNotFound)
		}
		return nil, fmt.Errorf("get s3://%s/%s: %w", p.bucket, key, err)
	}
	return out.Body, nil
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var re *awshttp.ResponseError
	return errors.As(err, &re) && re.HTTPStatusCode() == http.StatusNotFound
}
