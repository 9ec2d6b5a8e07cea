package entity

import (
	"math"
	"sort"
	"time"
)

// Interval はバーの時間足です。
type Interval string

const (
	Interval1m  Interval = "1m"
	Interval5m  Interval = "5m"
	Interval15m Interval = "15m"
	Interval1d  Interval = "1d"
)

// Duration は時間足の長さを返します。未知の値は0です。
func (i Interval) Duration() time.Duration {
	switch i {
	case Interval1m:
		return time.Minute
	case Interval5m:
		return 5 * time.Minute
	case Interval15m:
		return 15 * time.Minute
	case Interval1d:
		return 24 * time.Hour
	}
	return 0
}

// Period は取得対象の期間です。
type Period string

const (
	Period1d  Period = "1d"
	Period5d  Period = "5d"
	Period60d Period = "60d"
	Period1mo Period = "1mo"
)

// Duration は期間のおおよその長さを返します。1moは30日として扱います。
func (p Period) Duration() time.Duration {
	switch p {
	case Period1d:
		return 24 * time.Hour
	case Period5d:
		return 5 * 24 * time.Hour
	case Period60d:
		return 60 * 24 * time.Hour
	case Period1mo:
		return 30 * 24 * time.Hour
	}
	return 0
}

// Granularity is a series request: bar interval over a lookback period,
// optionally bounded to OutputSize bars.
type Granularity struct {
	Interval   Interval
	Period     Period
	OutputSize int // 0 means "as many as the period holds"
}

// BarCount は期間内に含まれる最大バー数を返します。
func (g Granularity) BarCount() int {
	d := g.Interval.Duration()
	if d <= 0 {
		return 0
	}
	return int(g.Period.Duration() / d)
}

// IsDaily は日足かどうかを返します。
func (g Granularity) IsDaily() bool {
	return g.Interval == Interval1d
}

// SeriesPoint は時系列の1点です。
type SeriesPoint struct {
	Time  time.Time
	Value float64
}

// TimeSeries is a strictly time-ordered close series for one instrument.
type TimeSeries struct {
	Symbol      string
	Granularity Granularity
	Points      []SeriesPoint
}

// NewTimeSeries は点列を時刻順に並べ、非有限値を除き、重複時刻は後勝ちで1点にまとめます。
func NewTimeSeries(symbol string, g Granularity, points []SeriesPoint) TimeSeries {
	clean := make([]SeriesPoint, 0, len(points))
	for _, p := range points {
		if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
			continue
		}
		clean = append(clean, p)
	}
	sort.SliceStable(clean, func(a, b int) bool {
		return clean[a].Time.Before(clean[b].Time)
	})

	out := clean[:0]
	for _, p := range clean {
		if n := len(out); n > 0 && out[n-1].Time.Equal(p.Time) {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}
	return TimeSeries{Symbol: symbol, Granularity: g, Points: out}
}

// Len は点数を返します。
func (s TimeSeries) Len() int {
	return len(s.Points)
}

// Last は最新の点を返します。
func (s TimeSeries) Last() (SeriesPoint, bool) {
	if len(s.Points) == 0 {
		return SeriesPoint{}, false
	}
	return s.Points[len(s.Points)-1], true
}

// Tail は末尾n点のみを持つ時系列を返します。n<=0または点数不足の場合はそのまま返します。
func (s TimeSeries) Tail(n int) TimeSeries {
	if n <= 0 || n >= len(s.Points) {
		return s
	}
	s.Points = s.Points[len(s.Points)-n:]
	return s
}

// DateOf は時刻をそのロケーションでの暦日0時に切り詰めます。日足の結合キーに使います。
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
