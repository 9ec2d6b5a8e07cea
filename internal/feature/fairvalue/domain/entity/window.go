package entity

import "time"

// AlignedRow は3系列が揃った1時刻分の行です。
type AlignedRow struct {
	Time time.Time
	XAU  float64 // Spot gold, USD
	JPY  float64 // USD/JPY
	ETF  float64 // 1540.T, JPY
}

// AlignedWindow is the time-joined, cleaned slice of the three series.
// Every row holds three finite values.
type AlignedWindow struct {
	Rows []AlignedRow
}

// Len は行数を返します。
func (w AlignedWindow) Len() int {
	return len(w.Rows)
}

// Tail は末尾n行のみを持つウィンドウを返します。行数がn未満の場合は全行を返します。
func (w AlignedWindow) Tail(n int) AlignedWindow {
	if n <= 0 || n >= len(w.Rows) {
		return w
	}
	return AlignedWindow{Rows: w.Rows[len(w.Rows)-n:]}
}
