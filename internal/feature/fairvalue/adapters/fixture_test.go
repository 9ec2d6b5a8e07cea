package adapters

import (
	"time"

	"gold_fairvalue/internal/feature/fairvalue/domain/entity"
)

var jst = time.FixedZone("JST", 9*60*60)

// testSnapshot はテスト用のスナップショットです。日足モードは値なし、5分足は全項目あり。
func testSnapshot() entity.Snapshot {
	return entity.Snapshot{
		RunAt: time.Date(2025, 1, 15, 15, 3, 7, 0, jst),
		Live: entity.LivePrices{
			XAU: entity.Some(entity.QuotePoint("twelvedata", 2650.5)),
			JPY: entity.Some(entity.QuotePoint("twelvedata", 156.25)),
			ETF: entity.Some(entity.PricePoint{
				Value:  13050,
				Time:   time.Date(2025, 1, 15, 14, 59, 0, 0, jst),
				Source: entity.Provenance{Provider: "yahoo", Strategy: "1m", TimeKnown: true},
			}),
		},
		Estimates: []entity.Estimate{
			{Mode: entity.ModeDay},
			{Mode: entity.Mode5m, K: entity.Some(0.0315), Theo: entity.Some(13045.0), Dev: entity.Some(0.0004)},
			{Mode: entity.Mode15m, K: entity.Some(0.0314), Theo: entity.Some(13004.0), Dev: entity.Some(0.0035)},
		},
	}
}
