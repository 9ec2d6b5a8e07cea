package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gold_fairvalue/internal/feature/fairvalue/domain/entity"
)

// SnapshotUsecase はライブ価格の解決、モードごとの推定、妥当性検査を順に実行し、
// 1件のスナップショットを出力先に書き出すユースケースです。
type SnapshotUsecase struct {
	feeds     Feeds
	modes     []entity.Mode
	bounds    SanityBounds
	loc       *time.Location
	primary   SnapshotPublisher
	secondary []SnapshotPublisher
	now       func() time.Time
}

// NewSnapshotUsecase は新しいSnapshotUsecaseを生成します。
// primaryへの書き込み失敗のみがRunのエラーになり、secondaryの失敗はログに残して続行します。
func NewSnapshotUsecase(feeds Feeds, modes []entity.Mode, bounds SanityBounds, loc *time.Location,
	primary SnapshotPublisher, secondary ...SnapshotPublisher) *SnapshotUsecase {
	if loc == nil {
		loc = time.UTC
	}
	return &SnapshotUsecase{
		feeds:     feeds,
		modes:     modes,
		bounds:    bounds,
		loc:       loc,
		primary:   primary,
		secondary: secondary,
		now:       time.Now,
	}
}

// Build はスナップショットを組み立てます。ネットワーク呼び出しは固定の順序で1回ずつ行います。
func (u *SnapshotUsecase) Build(ctx context.Context) entity.Snapshot {
	live := entity.LivePrices{
		XAU: ResolveLive(ctx, u.feeds.XAU),
		JPY: ResolveLive(ctx, u.feeds.JPY),
		ETF: ResolveLive(ctx, u.feeds.ETF),
	}

	estimates := make([]entity.Estimate, 0, len(u.modes))
	for _, m := range u.modes {
		estimates = append(estimates, u.estimate(ctx, m, live))
	}

	warnings := SanityWarnings(live, u.bounds)
	for _, w := range warnings {
		slog.Warn("sanity check failed", "detail", w)
	}

	return entity.Snapshot{
		RunAt:     u.now().In(u.loc),
		Live:      live,
		Estimates: estimates,
		Warnings:  warnings,
	}
}

// Run はスナップショットを組み立てて出力します。
func (u *SnapshotUsecase) Run(ctx context.Context) (entity.Snapshot, error) {
	snap := u.Build(ctx)

	if err := u.primary.Publish(ctx, snap); err != nil {
		return snap, fmt.Errorf("publish snapshot: %w", err)
	}
	for _, p := range u.secondary {
		if err := p.Publish(ctx, snap); err != nil {
			// 補助的な出力先の失敗では処理を止めない
			slog.Warn("failed to publish snapshot", "publisher", fmt.Sprintf("%T", p), "error", err)
		}
	}
	return snap, nil
}

// estimate は1モード分の系列を取得・結合し、kと理論価格・乖離率を求めます。
func (u *SnapshotUsecase) estimate(ctx context.Context, m entity.Mode, live entity.LivePrices) entity.Estimate {
	xau := u.feeds.XAU.Source.FetchSeries(ctx, u.feeds.XAU.Instrument, m.Granularity)
	jpy := u.feeds.JPY.Source.FetchSeries(ctx, u.feeds.JPY.Instrument, m.Granularity)
	etf := u.feeds.ETF.Source.FetchSeries(ctx, u.feeds.ETF.Instrument, m.Granularity)

	k := entity.None[float64]()
	rows := 0
	if w, ok := Align(xau, jpy, etf, m.AlignTail).Get(); ok {
		rows = w.Len()
		k = EstimateK(w.Tail(m.Window))
	}
	theo, dev := Valuate(k, live.XAU, live.JPY, live.ETF)

	slog.Info("mode estimated",
		"mode", string(m.Name),
		"aligned_rows", rows,
		"window", m.Window,
		"k", k.IsPresent(),
		"dev", dev.IsPresent(),
	)
	return entity.Estimate{Mode: m.Name, K: k, Theo: theo, Dev: dev}
}
