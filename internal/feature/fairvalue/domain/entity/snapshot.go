package entity

import "time"

// Estimate is the per-mode result. Each field is independently absent.
type Estimate struct {
	Mode ModeName
	K    Optional[float64] // Ratio constant
	Theo Optional[float64] // Theoretical ETF price, JPY
	Dev  Optional[float64] // etf/theo - 1
}

// LivePrices は3銘柄のライブ価格です。
type LivePrices struct {
	XAU Optional[PricePoint]
	JPY Optional[PricePoint]
	ETF Optional[PricePoint]
}

// Snapshot is the output record of one run. It is built once and never
// mutated or read back.
type Snapshot struct {
	RunAt     time.Time
	Live      LivePrices
	Estimates []Estimate
	Warnings  []string
}

// Estimate は指定モードの推定結果を返します。
func (s Snapshot) Estimate(mode ModeName) (Estimate, bool) {
	for _, e := range s.Estimates {
		if e.Mode == mode {
			return e, true
		}
	}
	return Estimate{Mode: mode}, false
}
