// Package prometheus exports evaluation metrics to Prometheus.
//
//	c, _ := prometheus.NewCollector(prom.DefaultRegisterer)
//	ev, _ := rankeval.New(store, labels, metric, rankeval.WithMetricsCollector(c))
package prometheus
