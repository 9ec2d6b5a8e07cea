// Package usecase は金ETF理論価格スナップショットのビジネスロジックを実装します。
package usecase

import (
	"context"

	"gold_fairvalue/internal/feature/fairvalue/domain/entity"
)

// MarketSource は価格データプロバイダーの共通インターフェースです。
// 実装はネットワーク障害・不正なレスポンス・空の結果をすべて「値なし」に変換し、
// 呼び出し元にエラーを返しません。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type MarketSource interface {
	// Name はプロバイダー名（シンボル表のキー）を返します。
	Name() string
	// FetchSeries は指定粒度の終値時系列を取得します。
	FetchSeries(ctx context.Context, inst entity.Instrument, g entity.Granularity) entity.Optional[entity.TimeSeries]
	// FetchQuote は最新気配値を取得します。
	FetchQuote(ctx context.Context, inst entity.Instrument) entity.Optional[entity.PricePoint]
}

// SnapshotPublisher はスナップショットの出力先を抽象化します。
type SnapshotPublisher interface {
	Publish(ctx context.Context, snapshot entity.Snapshot) error
}

// Feed は銘柄とそれを提供するプロバイダーの組です。
type Feed struct {
	Instrument entity.Instrument
	Source     MarketSource
}

// Feeds は3銘柄分のFeedです。
type Feeds struct {
	XAU Feed
	JPY Feed
	ETF Feed
}
