package usecase

import (
	"context"
	"log/slog"

	"gold_fairvalue/internal/feature/fairvalue/domain/entity"
)

// 最新価格の取得に使う粒度（細かい順）。
var (
	liveMinute1   = entity.Granularity{Interval: entity.Interval1m, Period: entity.Period1d}
	liveMinute5   = entity.Granularity{Interval: entity.Interval5m, Period: entity.Period5d}
	liveMinute15  = entity.Granularity{Interval: entity.Interval15m, Period: entity.Period60d}
	liveDaily     = entity.Granularity{Interval: entity.Interval1d, Period: entity.Period5d}
	liveQuoteTail = entity.Granularity{Interval: entity.Interval1m, Period: entity.Period1d, OutputSize: 5}
)

// ResolveLive はできるだけ「いまに近い」価格を1つ取得します。
// どの手段でも取得できなかった場合はNoneを返します（エラーではありません）。
func ResolveLive(ctx context.Context, f Feed) entity.Optional[entity.PricePoint] {
	var p entity.Optional[entity.PricePoint]
	if f.Instrument.PreferQuote {
		p = resolveQuoteFirst(ctx, f)
	} else {
		p = resolveBarHistory(ctx, f)
	}
	if !p.IsPresent() {
		slog.Warn("live price unavailable", "instrument", f.Instrument.Name, "provider", f.Source.Name())
	}
	return p
}

// resolveBarHistory は次の順に試し、最初に取れたものを返します:
//  1. 1分足 (1d) の最後
//  2. 5分足 (5d) の最後
//  3. 15分足 (60d) の最後
//  4. 最新クォート（時刻不明）
//  5. 日足 (5d) の最後
func resolveBarHistory(ctx context.Context, f Feed) entity.Optional[entity.PricePoint] {
	// 1) 1分足
	if p := lastBar(ctx, f, liveMinute1); p.IsPresent() {
		return p
	}
	// 2) 5分足
	if p := lastBar(ctx, f, liveMinute5); p.IsPresent() {
		return p
	}
	// 3) 15分足
	if p := lastBar(ctx, f, liveMinute15); p.IsPresent() {
		return p
	}
	// 4) クォート
	if p := quote(ctx, f); p.IsPresent() {
		return p
	}
	// 5) 日足
	return lastBar(ctx, f, liveDaily)
}

// resolveQuoteFirst はクォート対応プロバイダーの銘柄用です。
// クォートが取れなければ同じプロバイダーの短い1分足の末尾を使います。
func resolveQuoteFirst(ctx context.Context, f Feed) entity.Optional[entity.PricePoint] {
	if p := quote(ctx, f); p.IsPresent() {
		return p
	}
	return lastBar(ctx, f, liveQuoteTail)
}

// lastBar は時系列の最後の終値をそのタイムスタンプ付きで返します。
func lastBar(ctx context.Context, f Feed, g entity.Granularity) entity.Optional[entity.PricePoint] {
	series, ok := f.Source.FetchSeries(ctx, f.Instrument, g).Get()
	if !ok {
		slog.Debug("live strategy missed", "instrument", f.Instrument.Name, "strategy", string(g.Interval))
		return entity.None[entity.PricePoint]()
	}
	last, ok := series.Last()
	if !ok {
		return entity.None[entity.PricePoint]()
	}
	slog.Debug("live strategy hit", "instrument", f.Instrument.Name, "strategy", string(g.Interval), "time", last.Time)
	return entity.Some(entity.PricePoint{
		Value: last.Value,
		Time:  last.Time,
		Source: entity.Provenance{
			Provider:  f.Source.Name(),
			Strategy:  string(g.Interval),
			TimeKnown: true,
		},
	})
}

func quote(ctx context.Context, f Feed) entity.Optional[entity.PricePoint] {
	p := f.Source.FetchQuote(ctx, f.Instrument)
	slog.Debug("live quote", "instrument", f.Instrument.Name, "hit", p.IsPresent())
	return p
}
