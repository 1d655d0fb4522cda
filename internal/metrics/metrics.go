// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 検証フローの結果ラベル
const (
	OutcomeSent        = "sent"
	OutcomeVerified    = "verified"
	OutcomeInvalidCode = "invalid_code"
	OutcomeRejected    = "rejected"
	OutcomeError       = "error"
)

// MetricsCollector はメトリクス収集のインターフェース。
// サービス層・ミドルウェア・ワーカーから利用する。
type MetricsCollector interface {
	RecordVerificationStarted(outcome string)
	RecordVerificationChecked(outcome string)
	RecordDrinkRecorded()
	RecordDrinkDeleted()
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
	RecordSessionsCleaned(count int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	verificationStarted *prometheus.CounterVec
	verificationChecked *prometheus.CounterVec
	drinksRecorded      prometheus.Counter
	drinksDeleted       prometheus.Counter
	httpStatus          *prometheus.CounterVec
	requestLatency      prometheus.Histogram
	sessionsCleaned     prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		verificationStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mugclub_verification_started_total",
			Help: "SMS検証開始リクエストの結果別の合計数",
		}, []string{"outcome"}),
		verificationChecked: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mugclub_verification_checked_total",
			Help: "検証コード照合の結果別の合計数",
		}, []string{"outcome"}),
		drinksRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mugclub_drinks_recorded_total",
			Help: "記録された飲酒記録の合計数",
		}),
		drinksDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mugclub_drinks_deleted_total",
			Help: "削除された飲酒記録の合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mugclub_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mugclub_request_latency_seconds",
			Help:    "HTTPリクエストのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		sessionsCleaned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mugclub_sessions_cleaned_total",
			Help: "削除された期限切れセッションの合計数",
		}),
	}

	reg.MustRegister(
		c.verificationStarted,
		c.verificationChecked,
		c.drinksRecorded,
		c.drinksDeleted,
		c.httpStatus,
		c.requestLatency,
		c.sessionsCleaned,
	)

	return c
}

// RecordVerificationStarted はSMS検証開始の結果を記録する。
func (c *Collector) RecordVerificationStarted(outcome string) {
	c.verificationStarted.WithLabelValues(outcome).Inc()
}

// RecordVerificationChecked は検証コード照合の結果を記録する。
func (c *Collector) RecordVerificationChecked(outcome string) {
	c.verificationChecked.WithLabelValues(outcome).Inc()
}

// RecordDrinkRecorded は飲酒記録の作成を記録する。
func (c *Collector) RecordDrinkRecorded() {
	c.drinksRecorded.Inc()
}

// RecordDrinkDeleted は飲酒記録の削除を記録する。
func (c *Collector) RecordDrinkDeleted() {
	c.drinksDeleted.Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はリクエストのレイテンシを記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// RecordSessionsCleaned は削除された期限切れセッション数を記録する。
func (c *Collector) RecordSessionsCleaned(count int) {
	c.sessionsCleaned.Add(float64(count))
}

// NopCollector は何も記録しないMetricsCollector。テストやメトリクス無効時に使う。
type NopCollector struct{}

func (NopCollector) RecordVerificationStarted(string) {}
func (NopCollector) RecordVerificationChecked(string) {}
func (NopCollector) RecordDrinkRecorded() {}
func (NopCollector) RecordDrinkDeleted() {}
func (NopCollector) RecordHTTPStatus(int) {}
func (NopCollector) RecordRequestLatency(time.Duration) {}
func (NopCollector) RecordSessionsCleaned(int) {}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// compile-time interface check
var (
	_ MetricsCollector = (*Collector)(nil)
	_ MetricsCollector = NopCollector{}
)
