package adapters

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"gold_fairvalue/internal/feature/fairvalue/domain/entity"
	"gold_fairvalue/internal/feature/fairvalue/usecase"
)

// GatherPusher はレジストリをPushgatewayに送る処理です。platform/metrics.Pusherが実装します。
type GatherPusher interface {
	Push(ctx context.Context, g prometheus.Gatherer) error
}

// SnapshotMetrics はスナップショットの数値をゲージとしてPushgatewayに送ります。
// 値なしの項目はゲージを出力しません。
type SnapshotMetrics struct {
	pusher GatherPusher
}

var _ usecase.SnapshotPublisher = (*SnapshotMetrics)(nil)

// NewSnapshotMetrics は新しいSnapshotMetricsを生成します。
func NewSnapshotMetrics(pusher GatherPusher) *SnapshotMetrics {
	return &SnapshotMetrics{pusher: pusher}
}

// Publish は実行ごとに新しいレジストリを作り、ジョブのメトリクスを置き換えます。
func (m *SnapshotMetrics) Publish(ctx context.Context, snapshot entity.Snapshot) error {
	return m.pusher.Push(ctx, collect(snapshot))
}

func collect(s entity.Snapshot) *prometheus.Registry {
	reg := prometheus.NewRegistry()

	live := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "gold_fairvalue_live_price",
		Help: "Resolved live price per instrument",
	}, []string{"instrument", "source"})
	k := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "gold_fairvalue_k",
		Help: "Regression ratio constant per mode",
	}, []string{"mode"})
	theo := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "gold_fairvalue_theoretical_price",
		Help: "Theoretical ETF price in JPY per mode",
	}, []string{"mode"})
	dev := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "gold_fairvalue_deviation_ratio",
		Help: "ETF price relative to theoretical value minus one, per mode",
	}, []string{"mode"})
	warnings := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "gold_fairvalue_warnings",
		Help: "Number of sanity warnings in the last snapshot",
	})
	lastRun := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "gold_fairvalue_last_run_timestamp_seconds",
		Help: "Unix time of the last snapshot",
	})
	reg.MustRegister(live, k, theo, dev, warnings, lastRun)

	for name, p := range map[string]entity.Optional[entity.PricePoint]{
		"xauusd":    s.Live.XAU,
		"usdjpy":    s.Live.JPY,
		"price1540": s.Live.ETF,
	} {
		if v, ok := p.Get(); ok {
			live.WithLabelValues(name, v.Source.Tag()).Set(v.Value)
		}
	}
	for _, e := range s.Estimates {
		mode := string(e.Mode)
		if v, ok := e.K.Get(); ok {
			k.WithLabelValues(mode).Set(v)
		}
		if v, ok := e.Theo.Get(); ok {
			theo.WithLabelValues(mode).Set(v)
		}
		if v, ok := e.Dev.Get(); ok {
			dev.WithLabelValues(mode).Set(v)
		}
	}
	warnings.Set(float64(len(s.Warnings)))
	lastRun.Set(float64(s.RunAt.Unix()))

	return reg
}
