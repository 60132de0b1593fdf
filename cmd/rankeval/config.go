package main

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/BurntSushi/toml"
	"github.com/hupe1980/rankeval/stats"
	flags "github.com/jessevdk/go-flags"
)

// Options are the command line options. Every option except Config can also
// be set in the TOML config file; flags given on the command line win.
//
// Options carry no go-flags defaults so that a second parse over the
// decoded config only overwrites what was actually passed.
type Options struct {
	Config string `short:"c" long:"config" description:"TOML config file" toml:"-"`

	Store     string `long:"store" choice:"local" choice:"s3" choice:"minio" description:"Dataset store (default: local)" toml:"store"`
	Root      string `long:"root" description:"Local directory, or key prefix inside the bucket" toml:"root"`
	Bucket    string `long:"bucket" description:"Bucket for s3 and minio stores" toml:"bucket"`
	Endpoint  string `long:"endpoint" description:"Custom S3 endpoint URL or minio host:port" toml:"endpoint"`
	Region    string `long:"region" description:"AWS region for the s3 store" toml:"region"`
	AccessKey string `long:"access-key" env:"MINIO_ACCESS_KEY" description:"Access key for the minio store" toml:"access_key"`
	SecretKey string `long:"secret-key" env:"MINIO_SECRET_KEY" description:"Secret key for the minio store" toml:"secret_key"`
	Insecure  bool   `long:"insecure" description:"Use plain HTTP for the minio store" toml:"insecure"`

	Dataset string `short:"d" long:"dataset" description:"Dataset blob name (.zst and .lz4 are decompressed)" toml:"dataset"`
	Codec   string `long:"codec" choice:"json" choice:"go-json" description:"Dataset codec (default: go-json)" toml:"codec"`

	Metric  string `short:"m" long:"metric" description:"Distance metric: euclidean, squared-euclidean, manhattan (default: euclidean)" toml:"metric"`
	Weights string `short:"w" long:"weights" description:"Blob holding a square weight matrix as JSON; selects the matrix-weighted metric" toml:"weights"`

	Bins    int    `short:"b" long:"bins" description:"Number of percentile bins (default: 100)" toml:"bins"`
	Workers int    `long:"workers" description:"Scoring goroutines per group (default: GOMAXPROCS)" toml:"workers"`
	Policy  string `long:"group-policy" choice:"abort" choice:"skip" description:"Handling of empty or degenerate groups (default: abort)" toml:"group_policy"`

	MemoryLimit int64 `long:"memory-limit" description:"Bytes of rankings held at once, 0 for unlimited" toml:"memory_limit"`

	Format      string `short:"f" long:"format" choice:"text" choice:"json" description:"Output format (default: text)" toml:"format"`
	LogLevel    string `long:"log-level" description:"Log level: debug, info, warn, error (default: info)" toml:"log_level"`
	LogFormat   string `long:"log-format" choice:"text" choice:"json" description:"Log format (default: text)" toml:"log_format"`
	MetricsAddr string `long:"metrics-addr" description:"Serve Prometheus metrics on this address while running" toml:"metrics_addr"`
}

var errMissingDataset = errors.New("no dataset given (--dataset or config key dataset)")

// parseOptions parses args, merges the config file if one is named and
// fills in defaults.
func parseOptions(args []string) (*Options, error) {
	var cli Options
	if _, err := flags.NewParser(&cli, flags.Default).ParseArgs(args); err != nil {
		return nil, err
	}

	opts := cli
	if cli.Config != "" {
		var file Options
		if _, err := toml.DecodeFile(cli.Config, &file); err != nil {
			return nil, fmt.Errorf("read config %q: %w", cli.Config, err)
		}
		// Re-apply the command line on top of the file values.
		if _, err := flags.NewParser(&file, flags.None).ParseArgs(args); err != nil {
			return nil, err
		}
		opts = file
	}

	opts.setDefaults()

	if opts.Dataset == "" {
		return nil, errMissingDataset
	}
	if (opts.Store == "s3" || opts.Store == "minio") && opts.Bucket == "" {
		return nil, fmt.Errorf("store %s needs --bucket", opts.Store)
	}
	if _, err := opts.level(); err != nil {
		return nil, err
	}

	return &opts, nil
}

func (o *Options) setDefaults() {
	if o.Store == "" {
		o.Store = "local"
	}
	if o.Root == "" && o.Store == "local" {
		o.Root = "."
	}
	if o.Codec == "" {
		o.Codec = "go-json"
	}
	if o.Metric == "" {
		o.Metric = "euclidean"
	}
	if o.Bins == 0 {
		o.Bins = stats.DefaultNumBins
	}
	if o.Workers == 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.Policy == "" {
		o.Policy = "abort"
	}
	if o.Format == "" {
		o.Format = "text"
	}
	if o.LogLevel == "" {
		o.LogLevel = "info"
	}
	if o.LogFormat == "" {
		o.LogFormat = "text"
	}
}

func (o *Options) level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(o.LogLevel)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", o.LogLevel, err)
	}
	return l, nil
}
