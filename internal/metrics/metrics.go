package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Update metrics
	UpdatesTotal          *prometheus.CounterVec
	UpdateDurationSeconds *prometheus.HistogramVec
	RepliesTotal          *prometheus.CounterVec

	// Resolver metrics
	ResolutionsTotal *prometheus.CounterVec

	// Index metrics
	IndexRefreshTotal           *prometheus.CounterVec
	IndexRefreshDurationSeconds prometheus.Histogram
	IndexEntries                *prometheus.GaugeVec

	// Completion metrics
	CompletionsTotal           *prometheus.CounterVec
	CompletionDurationSeconds  *prometheus.HistogramVec
	ToneRewriteRejectionsTotal prometheus.Counter

	// Memory metrics
	MemoryCompactionsTotal *prometheus.CounterVec
	MemoryConversations    prometheus.Gauge

	// Download metrics
	DownloadsTotal          *prometheus.CounterVec
	DownloadDurationSeconds prometheus.Histogram

	// Rate limiter metrics
	RateLimiterDropped *prometheus.CounterVec
	ActiveRateLimiters *prometheus.GaugeVec

	// HTTP metrics
	HTTPErrorsTotal *prometheus.CounterVec
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		// Update metrics
		UpdatesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "datara_updates_total",
				Help: "Total number of Telegram updates by transport and status",
			},
			[]string{"transport", "status"}, // transport: webhook, polling; status: success, error, skipped
		),

		UpdateDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "datara_update_duration_seconds",
				Help:    "Update processing duration in seconds by transport",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"transport"},
		),

		RepliesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "datara_replies_total",
				Help: "Total number of replies sent by kind",
			},
			[]string{"kind"}, // kind: text, document
		),

		// Resolver metrics
		ResolutionsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "datara_resolutions_total",
				Help: "Total number of message resolutions by outcome",
			},
			[]string{"outcome"}, // outcome: casual, info, document, suggestions, fallback
		),

		// Index metrics
		IndexRefreshTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "datara_index_refresh_total",
				Help: "Total number of keyword index refreshes by status",
			},
			[]string{"status"}, // status: success, error
		),

		IndexRefreshDurationSeconds: promauto.With(registry).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "datara_index_refresh_duration_seconds",
				Help:    "Keyword index refresh duration in seconds",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30},
			},
		),

		IndexEntries: promauto.With(registry).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "datara_index_entries",
				Help: "Number of entries in the current keyword index snapshot by kind",
			},
			[]string{"kind"}, // kind: info, document
		),

		// Completion metrics
		CompletionsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "datara_completions_total",
				Help: "Total number of LLM completions by provider, purpose and status",
			},
			[]string{"provider", "purpose", "status"}, // purpose: fallback, tone, summary
		),

		CompletionDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "datara_completion_duration_seconds",
				Help:    "LLM completion duration in seconds by provider",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 20, 30},
			},
			[]string{"provider"},
		),

		ToneRewriteRejectionsTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "datara_tone_rewrite_rejections_total",
				Help: "Total number of tone rewrites rejected by the quality gate",
			},
		),

		// Memory metrics
		MemoryCompactionsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "datara_memory_compactions_total",
				Help: "Total number of conversation memory compactions by status",
			},
			[]string{"status"}, // status: success, error
		),

		MemoryConversations: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "datara_memory_conversations",
				Help: "Number of users with active conversation memory",
			},
		),

		// Download metrics
		DownloadsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "datara_downloads_total",
				Help: "Total number of document downloads by status",
			},
			[]string{"status"}, // status: success, error
		),

		DownloadDurationSeconds: promauto.With(registry).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "datara_download_duration_seconds",
				Help:    "Document download duration in seconds",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
			},
		),

		// Rate limiter metrics
		RateLimiterDropped: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "datara_rate_limiter_dropped_total",
				Help: "Total number of requests dropped by rate limiter",
			},
			[]string{"limiter_type"}, // limiter_type: user, llm
		),

		ActiveRateLimiters: promauto.With(registry).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "datara_active_rate_limiters",
				Help: "Number of active per-key rate limiter buckets by type",
			},
			[]string{"limiter_type"},
		),

		// HTTP metrics
		HTTPErrorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "datara_http_errors_total",
				Help: "Total HTTP errors by type and module",
			},
			[]string{"error_type", "module"}, // error_type: bad_request, timeout, internal
		),
	}

	return m
}

// RecordUpdate records a processed Telegram update
func (m *Metrics) RecordUpdate(transport, status string, duration float64) {
	m.UpdatesTotal.WithLabelValues(transport, status).Inc()
	m.UpdateDurationSeconds.WithLabelValues(transport).Observe(duration)
}

// RecordReply records a sent reply
func (m *Metrics) RecordReply(kind string) {
	m.RepliesTotal.WithLabelValues(kind).Inc()
}

// RecordResolution records a resolver outcome
func (m *Metrics) RecordResolution(outcome string) {
	m.ResolutionsTotal.WithLabelValues(outcome).Inc()
}

// RecordIndexRefresh records a keyword index refresh
func (m *Metrics) RecordIndexRefresh(status string, duration float64) {
	m.IndexRefreshTotal.WithLabelValues(status).Inc()
	m.IndexRefreshDurationSeconds.Observe(duration)
}

// SetIndexEntries records the size of the current index snapshot
func (m *Metrics) SetIndexEntries(kind string, count int) {
	m.IndexEntries.WithLabelValues(kind).Set(float64(count))
}

// RecordCompletion records an LLM completion attempt
func (m *Metrics) RecordCompletion(provider, purpose, status string, duration float64) {
	m.CompletionsTotal.WithLabelValues(provider, purpose, status).Inc()
	m.CompletionDurationSeconds.WithLabelValues(provider).Observe(duration)
}

// RecordToneRewriteRejection records a rewrite rejected by the quality gate
func (m *Metrics) RecordToneRewriteRejection() {
	m.ToneRewriteRejectionsTotal.Inc()
}

// RecordMemoryCompaction records a conversation memory compaction
func (m *Metrics) RecordMemoryCompaction(status string) {
	m.MemoryCompactionsTotal.WithLabelValues(status).Inc()
}

// SetMemoryConversations records how many users currently hold memory
func (m *Metrics) SetMemoryConversations(count int) {
	m.MemoryConversations.Set(float64(count))
}

// RecordDownload records a document download
func (m *Metrics) RecordDownload(status string, duration float64) {
	m.DownloadsTotal.WithLabelValues(status).Inc()
	m.DownloadDurationSeconds.Observe(duration)
}

// RecordRateLimiterDrop records a request dropped by rate limiter
func (m *Metrics) RecordRateLimiterDrop(limiterType string) {
	m.RateLimiterDropped.WithLabelValues(limiterType).Inc()
}

// SetActiveRateLimiters records the number of live limiter buckets
func (m *Metrics) SetActiveRateLimiters(limiterType string, count int) {
	m.ActiveRateLimiters.WithLabelValues(limiterType).Set(float64(count))
}

// RecordHTTPError records HTTP error metrics
func (m *Metrics) RecordHTTPError(errorType, module string) {
	m.HTTPErrorsTotal.WithLabelValues(errorType, module).Inc()
}
