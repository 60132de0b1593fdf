package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/hupe1980/rankeval"
	"github.com/hupe1980/rankeval/blobstore"
	"github.com/hupe1980/rankeval/codec"
	"github.com/hupe1980/rankeval/dataset"
	"github.com/hupe1980/rankeval/distance"
	prommetrics "github.com/hupe1980/rankeval/metrics/prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// run loads the dataset, evaluates the metric and writes the result to w.
func run(ctx context.Context, o *Options, w io.Writer) error {
	logger, err := newLogger(o, os.Stderr)
	if err != nil {
		return err
	}

	c, ok := codec.ByName(o.Codec)
	if !ok {
		return fmt.Errorf("unknown codec %q", o.Codec)
	}

	store, err := openStore(ctx, o)
	if err != nil {
		return err
	}

	ds, labels, err := dataset.Load(ctx, store, o.Dataset, c)
	if err != nil {
		return err
	}
	logger.Info("dataset loaded", "name", o.Dataset, "points", ds.Len(), "dimension", ds.Dim())

	metric, err := loadMetric(ctx, store, o, c)
	if err != nil {
		return err
	}

	policy, err := rankeval.ParseGroupPolicy(o.Policy)
	if err != nil {
		return err
	}

	evalOpts := []rankeval.Option{
		rankeval.WithNumBins(o.Bins),
		rankeval.WithWorkers(o.Workers),
		rankeval.WithGroupPolicy(policy),
		rankeval.WithMemoryLimit(o.MemoryLimit),
		rankeval.WithLogger(logger),
		rankeval.WithProgress(func(p rankeval.Progress) {
			logger.Info("progress", "processed", p.Processed, "total", p.Total)
		}),
	}

	if o.MetricsAddr != "" {
		stop, mc, err := serveMetrics(o.MetricsAddr, logger)
		if err != nil {
			return err
		}
		defer stop()
		evalOpts = append(evalOpts, rankeval.WithMetricsCollector(mc))
	}

	ev, err := rankeval.New(ds, labels, metric, evalOpts...)
	if err != nil {
		return err
	}

	res, err := ev.Run(ctx)
	if err != nil {
		return err
	}

	return writeResult(w, o.Format, res)
}

func newLogger(o *Options, w io.Writer) (*rankeval.Logger, error) {
	level, err := o.level()
	if err != nil {
		return nil, err
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	if o.LogFormat == "json" {
		return rankeval.NewLogger(slog.NewJSONHandler(w, handlerOpts)), nil
	}
	return rankeval.NewLogger(slog.NewTextHandler(w, handlerOpts)), nil
}

// loadMetric builds the matrix-weighted metric from the weights blob, or a
// built-in metric by name.
func loadMetric(ctx context.Context, store blobstore.BlobStore, o *Options, c codec.Codec) (distance.Metric, error) {
	if o.Weights == "" {
		kind, err := distance.ParseKind(o.Metric)
		if err != nil {
			return nil, err
		}
		return distance.Provider(kind)
	}

	raw, err := store.Get(ctx, o.Weights)
	if err != nil {
		return nil, fmt.Errorf("read weights %q: %w", o.Weights, err)
	}
	var w [][]float64
	if err := c.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("decode weights %q: %w", o.Weights, err)
	}
	return distance.NewMatrixWeighted(w)
}

// serveMetrics exposes a fresh registry on addr until stop is called.
func serveMetrics(addr string, logger *rankeval.Logger) (func(), *prommetrics.Collector, error) {
	reg := prometheus.NewRegistry()
	mc, err := prommetrics.NewCollector(reg)
	if err != nil {
		return nil, nil, err
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("metrics listener: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", "error", err)
		}
	}()
	logger.Info("serving metrics", "addr", ln.Addr().String())

	stop := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
	return stop, mc, nil
}

func writeResult(w io.Writer, format string, res *rankeval.Result) error {
	if format == "json" {
		data, err := codec.Default.Marshal(res)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	}

	if _, err := fmt.Fprintf(w, "# metric=%s groups=%d points=%d skipped=%d\n",
		res.Metric, res.Groups, res.Points, res.SkippedGroups); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "percentile\tcount\tmean\tvariance"); err != nil {
		return err
	}
	for _, row := range res.Rows {
		if _, err := fmt.Fprintln(w, row.String()); err != nil {
			return err
		}
	}
	return nil
}
