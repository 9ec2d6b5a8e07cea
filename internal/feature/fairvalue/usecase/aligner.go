package usecase

import (
	"math"

	"gold_fairvalue/internal/feature/fairvalue/domain/entity"
)

// Align は3系列をタイムスタンプで内部結合します。
// 3系列すべてに値がある時刻のみを残すため、片方の市場の取引時間中しか
// 更新されない系列とは重なった時間帯だけが残ります。
// 非有限値を含む行は除外し、tail>0なら直近tail行のみ残します。
// どれかの入力が無い、または0行になった場合はNoneを返します。
func Align(xau, jpy, etf entity.Optional[entity.TimeSeries], tail int) entity.Optional[entity.AlignedWindow] {
	x, okX := xau.Get()
	j, okJ := jpy.Get()
	e, okE := etf.Get()
	if !okX || !okJ || !okE {
		return entity.None[entity.AlignedWindow]()
	}

	jpyAt := indexByTime(j)
	etfAt := indexByTime(e)

	rows := make([]entity.AlignedRow, 0, len(x.Points))
	for _, p := range x.Points {
		key := p.Time.UnixNano()
		jv, ok := jpyAt[key]
		if !ok {
			continue
		}
		ev, ok := etfAt[key]
		if !ok {
			continue
		}
		if !allFinite(p.Value, jv, ev) {
			continue
		}
		rows = append(rows, entity.AlignedRow{Time: p.Time, XAU: p.Value, JPY: jv, ETF: ev})
	}

	w := entity.AlignedWindow{Rows: rows}.Tail(tail)
	if w.Len() == 0 {
		return entity.None[entity.AlignedWindow]()
	}
	return entity.Some(w)
}

// indexByTime は時刻（UnixNano）から値への索引を作ります。
// time.Timeはロケーションを含むため、そのままマップのキーにはしません。
func indexByTime(s entity.TimeSeries) map[int64]float64 {
	m := make(map[int64]float64, len(s.Points))
	for _, p := range s.Points {
		m[p.Time.UnixNano()] = p.Value
	}
	return m
}

func allFinite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
