package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gold_fairvalue/internal/feature/fairvalue/domain/entity"
)

// ErrPublish はモックと期待値の間で共有されるセンチネルエラーです。
var ErrPublish = errors.New("publish error")

// mockMarketSource はMarketSourceインターフェースのモック実装です。
// 呼び出された戦略を "interval/period" または "quote" として記録します。
type mockMarketSource struct {
	name            string
	FetchSeriesFunc func(ctx context.Context, inst entity.Instrument, g entity.Granularity) entity.Optional[entity.TimeSeries]
	FetchQuoteFunc  func(ctx context.Context, inst entity.Instrument) entity.Optional[entity.PricePoint]
	Calls           []string
	Granularities   []entity.Granularity
}

func (m *mockMarketSource) Name() string {
	if m.name == "" {
		return "mock"
	}
	return m.name
}

func (m *mockMarketSource) FetchSeries(ctx context.Context, inst entity.Instrument, g entity.Granularity) entity.Optional[entity.TimeSeries] {
	m.Calls = append(m.Calls, fmt.Sprintf("%s/%s", g.Interval, g.Period))
	m.Granularities = append(m.Granularities, g)
	if m.FetchSeriesFunc != nil {
		return m.FetchSeriesFunc(ctx, inst, g)
	}
	return entity.None[entity.TimeSeries]()
}

func (m *mockMarketSource) FetchQuote(ctx context.Context, inst entity.Instrument) entity.Optional[entity.PricePoint] {
	m.Calls = append(m.Calls, entity.StrategyQuote)
	if m.FetchQuoteFunc != nil {
		return m.FetchQuoteFunc(ctx, inst)
	}
	return entity.None[entity.PricePoint]()
}

// mockPublisher はSnapshotPublisherのモック実装です。
type mockPublisher struct {
	PublishFunc  func(ctx context.Context, snapshot entity.Snapshot) error
	PublishCalls int
	Last         entity.Snapshot
}

func (m *mockPublisher) Publish(ctx context.Context, snapshot entity.Snapshot) error {
	m.PublishCalls++
	m.Last = snapshot
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, snapshot)
	}
	return nil
}

// testBase はテスト用の固定時刻です。
var testBase = time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

// seriesOf は1分間隔の時系列を生成します。
func seriesOf(values ...float64) entity.TimeSeries {
	return seriesFrom(0, values...)
}

// seriesFrom はstart分目から始まる1分間隔の時系列を生成します。
func seriesFrom(start int, values ...float64) entity.TimeSeries {
	points := make([]entity.SeriesPoint, 0, len(values))
	for i, v := range values {
		points = append(points, entity.SeriesPoint{
			Time:  testBase.Add(time.Duration(start+i) * time.Minute),
			Value: v,
		})
	}
	return entity.NewTimeSeries("TEST", entity.Granularity{Interval: entity.Interval1m, Period: entity.Period1d}, points)
}

// constSeries はn点の同一値の時系列を生成します。
func constSeries(n int, v float64) entity.TimeSeries {
	values := make([]float64, n)
	for i := range values {
		values[i] = v
	}
	return seriesOf(values...)
}

func livePoint(v float64) entity.Optional[entity.PricePoint] {
	return entity.Some(entity.PricePoint{Value: v, Time: testBase, Source: entity.Provenance{Provider: "mock", Strategy: "1m", TimeKnown: true}})
}
