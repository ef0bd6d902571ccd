// Package bootstrap wires configuration to concrete adapters. Both the server
// and the operator CLI build their dependencies through it.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/paulmach/orb/geojson"

	httpadapter "github.com/couchcryptid/njstats/internal/adapter/http"
	"github.com/couchcryptid/njstats/internal/adapter/s3source"
	"github.com/couchcryptid/njstats/internal/adapter/sqlstore"
	"github.com/couchcryptid/njstats/internal/config"
	"github.com/couchcryptid/njstats/internal/domain"
	"github.com/couchcryptid/njstats/internal/source"
)

// OpenSources returns the provider named by SOURCE_URI, using the manifest
// from SOURCES_MANIFEST when set.
func OpenSources(ctx context.Context, cfg *config.Config, logger *slog.Logger) (source.Provider, error) {
	manifest, err := source.LoadManifest(cfg.SourcesManifest)
	if err != nil {
		return nil, err
	}

	if !cfg.RemoteSources() {
		logger.Info("reading sources from directory", "dir", cfg.SourceURI)
		return source.NewDir(cfg.SourceURI, manifest), nil
	}

	bucket, prefix, err := s3source.ParseURI(cfg.SourceURI)
	if err != nil {
		return nil, err
	}
	p, err := s3source.New(ctx, s3source.Config{
		Bucket:    bucket,
		Prefix:    prefix,
		Region:    cfg.AWSRegion,
		Endpoint:  cfg.S3Endpoint,
		PathStyle: cfg.S3Endpoint != "",
	}, manifest)
	if err != nil {
		return nil, err
	}
	logger.Info("reading sources from s3", "bucket", bucket, "prefix", prefix)
	return p, nil
}

// OpenStore connects to the configured store.
func OpenStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sqlstore.Store, error) {
	driver := sqlstore.DriverSQLite
	if cfg.StoreDriver == config.StorePostgres {
		driver = sqlstore.DriverPostgres
	}
	return sqlstore.Open(ctx, driver, cfg.StoreDSN, logger)
}

// LoadAssets reads the documents served verbatim and checks the reference
// tables read at query time. The county boundaries must be a GeoJSON
// FeatureCollection and both percentile tables must parse. The index page is
// optional.
func LoadAssets(ctx context.Context, sources source.Provider) (httpadapter.Assets, error) {
	counties, err := source.ReadAll(ctx, sources, source.CountyLocations)
	if err != nil {
		return httpadapter.Assets{}, err
	}
	if _, err := geojson.UnmarshalFeatureCollection(counties); err != nil {
		return httpadapter.Assets{}, fmt.Errorf("%s: %w", source.CountyLocations, err)
	}

	for _, name := range []string{source.MathPercentiles, source.ReadingPercentiles} {
		if err := checkPercentileTable(ctx, sources, name); err != nil {
			return httpadapter.Assets{}, err
		}
	}

	index, err := source.ReadAll(ctx, sources, source.IndexPage)
	if err != nil && !errors.Is(err, source.ErrSourceNotFound) {
		return httpadapter.Assets{}, err
	}
	return httpadapter.Assets{CountyLocations: counties, Index: index}, nil
}

func checkPercentileTable(ctx context.Context, sources source.Provider, name string) error {
	rc, err := sources.Open(ctx, name)
	if err != nil {
		return fmt.Errorf("open percentile table: %w", err)
	}
	defer func() { _ = rc.Close() }()

	if _, err := domain.ParsePercentileTable(name, rc); err != nil {
		return err
	}
	return nil
}
