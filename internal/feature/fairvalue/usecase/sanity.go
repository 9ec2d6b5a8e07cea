package usecase

import (
	"fmt"

	"gold_fairvalue/internal/feature/fairvalue/domain/entity"
)

// Bounds は価格の妥当範囲（両端を含む）です。
type Bounds struct {
	Min float64
	Max float64
}

// SanityBounds は3銘柄の妥当範囲です。
type SanityBounds struct {
	XAU Bounds
	JPY Bounds
	ETF Bounds
}

// DefaultSanityBounds は既定の妥当範囲を返します。
func DefaultSanityBounds() SanityBounds {
	return SanityBounds{
		XAU: Bounds{Min: 500, Max: 10000},
		JPY: Bounds{Min: 50, Max: 300},
		ETF: Bounds{Min: 1000, Max: 200000},
	}
}

// SanityWarnings は妥当範囲外のライブ価格ごとに警告文を返します。
// 計算結果には影響しません。欠損している価格は検査しません。
func SanityWarnings(live entity.LivePrices, b SanityBounds) []string {
	var warnings []string
	for _, c := range []struct {
		label  string
		price  entity.Optional[entity.PricePoint]
		bounds Bounds
	}{
		{"xauusd", live.XAU, b.XAU},
		{"usdjpy", live.JPY, b.JPY},
		{"price1540", live.ETF, b.ETF},
	} {
		p, ok := c.price.Get()
		if !ok {
			continue
		}
		if p.Value < c.bounds.Min || p.Value > c.bounds.Max {
			warnings = append(warnings, fmt.Sprintf("%s=%.3f outside plausible range [%g, %g]",
				c.label, p.Value, c.bounds.Min, c.bounds.Max))
		}
	}
	return warnings
}
