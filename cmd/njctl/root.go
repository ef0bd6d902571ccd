package main

import (
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/couchcryptid/njstats/internal/config"
	"github.com/couchcryptid/njstats/internal/observability"
)

// cli carries what every subcommand needs once flags and environment are resolved.
type cli struct {
	v      *viper.Viper
	cfg    *config.Config
	logger *slog.Logger
	json   bool
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}

	root := &cobra.Command{
		Use:           "njctl",
		Short:         "Validate, seed, and query the NJ county statistics store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.load(cmd)
		},
	}

	f := root.PersistentFlags()
	f.String("source", "Resources", "dataset directory or s3://bucket/prefix")
	f.String("manifest", "", "YAML file overriding dataset file names")
	f.String("state", "NJ", "state whose hospitals are kept")
	f.String("driver", config.StoreSQLite, "store driver: sqlite or postgres")
	f.String("dsn", "nj_db.db", "store data source name")
	f.String("log-level", "warn", "log level: debug, info, warn, error")
	f.String("aws-region", "us-east-1", "region for s3 sources")
	f.String("s3-endpoint", "", "custom s3 endpoint, e.g. a MinIO URL")
	f.StringSlice("kafka-brokers", nil, "publish seed reports to these brokers")
	f.String("kafka-seed-topic", "county-stats-seeded", "topic for seed reports")
	f.BoolVar(&c.json, "json", false, "print JSON instead of a table")

	root.AddCommand(newValidateCmd(c), newSeedCmd(c), newQueryCmd(c))
	return root
}

// load resolves settings with precedence flags > NJSTATS_* environment > defaults.
func (c *cli) load(cmd *cobra.Command) error {
	c.v.SetEnvPrefix("NJSTATS")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()
	if err := c.v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	c.cfg = &config.Config{
		LogLevel:        strings.ToLower(c.v.GetString("log-level")),
		LogFormat:       "text",
		StateCode:       strings.ToUpper(c.v.GetString("state")),
		SourceURI:       c.v.GetString("source"),
		SourcesManifest: c.v.GetString("manifest"),
		AWSRegion:       c.v.GetString("aws-region"),
		S3Endpoint:      c.v.GetString("s3-endpoint"),
		StoreDriver:     strings.ToLower(c.v.GetString("driver")),
		StoreDSN:        c.v.GetString("dsn"),
		KafkaBrokers:    splitList(c.v.GetStringSlice("kafka-brokers")),
		KafkaSeedTopic:  c.v.GetString("kafka-seed-topic"),
	}
	if err := c.cfg.Validate(); err != nil {
		return err
	}
	c.logger = observability.NewLoggerTo(cmd.ErrOrStderr(), c.cfg)
	return nil
}

// splitList flattens comma separated entries; viper splits environment
// values on whitespace only.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
