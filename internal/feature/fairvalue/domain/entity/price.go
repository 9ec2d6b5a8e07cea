package entity

import "time"

// StrategyQuote は最新気配（クォート）エンドポイント由来であることを示す戦略名です。
const StrategyQuote = "quote"

// Provenance はライブ価格がどのプロバイダー・どの粒度で得られたかを表します。
type Provenance struct {
	Provider  string // "twelvedata", "yahoo"
	Strategy  string // "1m", "5m", "15m", "1d" or "quote"
	TimeKnown bool   // false: quote-only result, the observation time is unknown
}

// Tag は "provider:strategy" 形式の出所タグを返します。
func (p Provenance) Tag() string {
	return p.Provider + ":" + p.Strategy
}

// PricePoint は単一の価格観測値です。生成後は変更しません。
type PricePoint struct {
	Value  float64
	Time   time.Time // Zero when Source.TimeKnown is false
	Source Provenance
}

// QuotePoint はタイムスタンプ不明のクォート由来のPricePointを生成します。
func QuotePoint(provider string, value float64) PricePoint {
	return PricePoint{
		Value:  value,
		Source: Provenance{Provider: provider, Strategy: StrategyQuote, TimeKnown: false},
	}
}
