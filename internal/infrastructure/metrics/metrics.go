package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics アプリケーションのPrometheusメトリクス
// nilレシーバーでも安全に呼び出せる
type Metrics struct {
	importsTotal     *prometheus.CounterVec
	importDuration   prometheus.Histogram
	venues           prometheus.Gauge
	integrityRepairs prometheus.Counter
	venueUpdates     *prometheus.CounterVec
	photoOperations  *prometheus.CounterVec
	remoteUpdates    *prometheus.CounterVec
}

// New メトリクスを作成し、regに登録する（regがnilなら登録しない）
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		importsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "goldengai",
			Name:      "imports_total",
			Help:      "グリッドインポートの実行回数",
		}, []string{"result"}),
		importDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "goldengai",
			Name:      "import_duration_seconds",
			Help:      "グリッドインポートの所要時間",
			Buckets:   prometheus.DefBuckets,
		}),
		venues: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "goldengai",
			Name:      "venues",
			Help:      "最後のインポートで登録されたバーの件数",
		}),
		integrityRepairs: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "goldengai",
			Name:      "integrity_repairs_total",
			Help:      "整合性チェックで再発行したIDの件数",
		}),
		venueUpdates: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "goldengai",
			Name:      "venue_updates_total",
			Help:      "バーの更新回数",
		}, []string{"field"}),
		photoOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "goldengai",
			Name:      "photo_operations_total",
			Help:      "写真キャッシュの操作回数",
		}, []string{"operation", "result"}),
		remoteUpdates: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "goldengai",
			Name:      "remote_patches_total",
			Help:      "リモート更新パッチの適用結果",
		}, []string{"result"}),
	}
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// ObserveImport インポート結果を記録
func (m *Metrics) ObserveImport(venueCount int, started time.Time, err error) {
	if m == nil {
		return
	}
	m.importsTotal.WithLabelValues(resultLabel(err)).Inc()
	m.importDuration.Observe(time.Since(started).Seconds())
	if err == nil {
		m.venues.Set(float64(venueCount))
	}
}

// AddIntegrityRepairs ID修復件数を加算
func (m *Metrics) AddIntegrityRepairs(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.integrityRepairs.Add(float64(n))
}

// IncVenueUpdate バー更新を記録（field: visited / notes / remote）
func (m *Metrics) IncVenueUpdate(field string) {
	if m == nil {
		return
	}
	m.venueUpdates.WithLabelValues(field).Inc()
}

// ObservePhoto 写真操作の結果を記録
func (m *Metrics) ObservePhoto(operation string, err error) {
	if m == nil {
		return
	}
	m.photoOperations.WithLabelValues(operation, resultLabel(err)).Inc()
}

// AddRemotePatches リモート更新の適用件数を記録
func (m *Metrics) AddRemotePatches(applied, notFound int) {
	if m == nil {
		return
	}
	m.remoteUpdates.WithLabelValues("applied").Add(float64(applied))
	m.remoteUpdates.WithLabelValues("not_found").Add(float64(notFound))
}
