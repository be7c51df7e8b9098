// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ハンドラーやサービス層から利用する。
type MetricsCollector interface {
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
	RecordCommentCreated(jobID string)
	RecordLikeToggled(jobID string, liked bool)
	RecordApplicationSubmitted(jobID string)
	RecordWSConnection(delta int)
	RecordIdentityResolveFailure(reason string)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpStatus      *prometheus.CounterVec
	requestLatency  prometheus.Histogram
	commentsCreated prometheus.Counter
	likesToggled    *prometheus.CounterVec
	applications    prometheus.Counter
	wsConnections   prometheus.Gauge
	resolveFailures *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jobhub_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "jobhub_request_latency_seconds",
			Help:    "APIリクエストのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		commentsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jobhub_comments_created_total",
			Help: "投稿されたコメントの合計数",
		}),
		likesToggled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jobhub_likes_toggled_total",
			Help: "いいねトグル操作の合計数",
		}, []string{"result"}),
		applications: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jobhub_applications_submitted_total",
			Help: "送信された求人応募の合計数",
		}),
		wsConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "jobhub_ws_connections",
			Help: "現在のWebSocket接続数",
		}),
		resolveFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jobhub_identity_resolve_failures_total",
			Help: "IDプロバイダでのトークン解決失敗の合計数",
		}, []string{"reason"}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.requestLatency,
		c.commentsCreated,
		c.likesToggled,
		c.applications,
		c.wsConnections,
		c.resolveFailures,
	)

	return c
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はリクエストのレイテンシを記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// RecordCommentCreated はコメント投稿を記録する。
func (c *Collector) RecordCommentCreated(jobID string) {
	c.commentsCreated.Inc()
}

// RecordLikeToggled はいいねトグルの結果を記録する。
func (c *Collector) RecordLikeToggled(jobID string, liked bool) {
	result := "unliked"
	if liked {
		result = "liked"
	}
	c.likesToggled.WithLabelValues(result).Inc()
}

// RecordApplicationSubmitted は求人応募の送信を記録する。
func (c *Collector) RecordApplicationSubmitted(jobID string) {
	c.applications.Inc()
}

// RecordWSConnection はWebSocket接続数の増減を記録する。
func (c *Collector) RecordWSConnection(delta int) {
	c.wsConnections.Add(float64(delta))
}

// RecordIdentityResolveFailure はトークン解決失敗を理由別に記録する。
func (c *Collector) RecordIdentityResolveFailure(reason string) {
	c.resolveFailures.WithLabelValues(reason).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
