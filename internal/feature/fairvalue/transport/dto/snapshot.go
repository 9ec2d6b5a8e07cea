// Package dto はスナップショットの出力形式を定義します。
package dto

import (
	"gold_fairvalue/internal/feature/fairvalue/domain/entity"
)

const (
	// TimeLayout はtime_jstの書式です。
	TimeLayout = "2006-01-02 15:04:05"
	// SourceTimeLayout はtime_srcの書式です。オフセットを含みます。
	SourceTimeLayout = "2006-01-02 15:04:05-07:00"
)

// InstrumentFields は3銘柄分の文字列フィールドです。値なしはnullになります。
type InstrumentFields struct {
	XAU *string `json:"xau"`
	JPY *string `json:"jpy"`
	ETF *string `json:"etf"`
}

// SnapshotResponse はdata.jsonに書き出すスナップショットのDTOです。
type SnapshotResponse struct {
	TimeJST   string           `json:"time_jst"`  // 実行時刻（JST）
	XAUUSD    *float64         `json:"xauusd"`    // 金スポット USD/oz
	USDJPY    *float64         `json:"usdjpy"`    // 為替
	Price1540 *float64         `json:"price1540"` // 1540.T 円
	TimeSrc   InstrumentFields `json:"time_src"`  // 観測時刻または "quote"
	Source    InstrumentFields `json:"source"`    // "provider:strategy"

	KDay    *float64 `json:"k_day"`
	TheoDay *float64 `json:"theo_day"`
	DevDay  *float64 `json:"dev_day"`
	K5m     *float64 `json:"k_5m"`
	Theo5m  *float64 `json:"theo_5m"`
	Dev5m   *float64 `json:"dev_5m"`
	K15m    *float64 `json:"k_15m"`
	Theo15m *float64 `json:"theo_15m"`
	Dev15m  *float64 `json:"dev_15m"`

	Warnings []string `json:"warnings,omitempty"`
}

// FromSnapshot はエンティティを出力DTOに変換します。
func FromSnapshot(s entity.Snapshot) SnapshotResponse {
	r := SnapshotResponse{
		TimeJST:   s.RunAt.Format(TimeLayout),
		XAUUSD:    priceValue(s.Live.XAU),
		USDJPY:    priceValue(s.Live.JPY),
		Price1540: priceValue(s.Live.ETF),
		TimeSrc: InstrumentFields{
			XAU: sourceTime(s.Live.XAU),
			JPY: sourceTime(s.Live.JPY),
			ETF: sourceTime(s.Live.ETF),
		},
		Source: InstrumentFields{
			XAU: sourceTag(s.Live.XAU),
			JPY: sourceTag(s.Live.JPY),
			ETF: sourceTag(s.Live.ETF),
		},
	}
	if len(s.Warnings) > 0 {
		r.Warnings = append([]string(nil), s.Warnings...)
	}

	for _, e := range s.Estimates {
		k, theo, dev := ptr(e.K), ptr(e.Theo), ptr(e.Dev)
		switch e.Mode {
		case entity.ModeDay:
			r.KDay, r.TheoDay, r.DevDay = k, theo, dev
		case entity.Mode5m:
			r.K5m, r.Theo5m, r.Dev5m = k, theo, dev
		case entity.Mode15m:
			r.K15m, r.Theo15m, r.Dev15m = k, theo, dev
		}
	}
	return r
}

func ptr[T any](o entity.Optional[T]) *T {
	v, ok := o.Get()
	if !ok {
		return nil
	}
	return &v
}

func priceValue(o entity.Optional[entity.PricePoint]) *float64 {
	p, ok := o.Get()
	if !ok {
		return nil
	}
	return &p.Value
}

func sourceTime(o entity.Optional[entity.PricePoint]) *string {
	p, ok := o.Get()
	if !ok {
		return nil
	}
	s := entity.StrategyQuote
	if p.Source.TimeKnown {
		s = p.Time.Format(SourceTimeLayout)
	}
	return &s
}

func sourceTag(o entity.Optional[entity.PricePoint]) *string {
	p, ok := o.Get()
	if !ok {
		return nil
	}
	s := p.Source.Tag()
	return &s
}
