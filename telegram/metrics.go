package telegram

import (
	"context"
	"time"

	"creatrends/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sourceConnectAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "creatrends_source_connect_attempts_total",
		Help: "The total number of post source connection attempts",
	}, []string{"source"})

	sourceConnectErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "creatrends_source_connect_errors_total",
		Help: "The total number of failed post source connection attempts",
	}, []string{"source"})

	sourceFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "creatrends_source_fetches_total",
		Help: "The total number of channel fetches",
	}, []string{"source"})

	sourceFetchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "creatrends_source_fetch_errors_total",
		Help: "The total number of failed channel fetches",
	}, []string{"source"})

	sourceFetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "creatrends_source_fetch_duration_seconds",
		Help:    "Duration of channel fetches",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // Start at 1ms, double each bucket
	}, []string{"source"})
)

type instrumented struct {
	PostSource
}

// Instrument wraps a source so connects and fetches are recorded
func Instrument(src PostSource) PostSource {
	if _, ok := src.(*instrumented); ok {
		return src
	}
	return &instrumented{PostSource: src}
}

func (s *instrumented) Connect(ctx context.Context) error {
	sourceConnectAttempts.WithLabelValues(s.Name()).Inc()
	err := s.PostSource.Connect(ctx)
	if err != nil {
		sourceConnectErrors.WithLabelValues(s.Name()).Inc()
	}
	return err
}

func (s *instrumented) FetchPosts(ctx context.Context, channel string, limit int, minViews int64) ([]models.PostRecord, error) {
	start := time.Now()
	sourceFetches.WithLabelValues(s.Name()).Inc()

	posts, err := s.PostSource.FetchPosts(ctx, channel, limit, minViews)

	sourceFetchDuration.WithLabelValues(s.Name()).Observe(time.Since(start).Seconds())
	if err != nil {
		sourceFetchErrors.WithLabelValues(s.Name()).Inc()
	}
	return posts, err
}
