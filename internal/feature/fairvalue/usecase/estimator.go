package usecase

import (
	"gold_fairvalue/internal/feature/fairvalue/domain/entity"
)

// MinRegressionRows は比率定数kの推定に必要な最小行数です。
const MinRegressionRows = 5

// EstimateK は etf ≈ k·(xau·jpy) を原点回帰の最小二乗で解き、k = Σxy / Σx² を返します。
// 行数不足、分母が0以下、結果が非有限の場合はNoneです。
func EstimateK(w entity.AlignedWindow) entity.Optional[float64] {
	if w.Len() < MinRegressionRows {
		return entity.None[float64]()
	}

	var num, den float64
	for _, r := range w.Rows {
		x := r.XAU * r.JPY
		num += x * r.ETF
		den += x * x
	}
	if !(den > 0) {
		return entity.None[float64]()
	}
	return entity.Finite(num / den)
}

// Valuate は理論価格 theo = xau·jpy·k と乖離率 dev = etf/theo − 1 を計算します。
// kと3つのライブ価格がすべて揃い、theoが有限かつ0でない場合のみ値を返します。
func Valuate(k entity.Optional[float64], xau, jpy, etf entity.Optional[entity.PricePoint]) (theo, dev entity.Optional[float64]) {
	theo, dev = entity.None[float64](), entity.None[float64]()

	kv, ok := k.Get()
	if !ok || kv == 0 {
		return theo, dev
	}
	x, okX := livePrice(xau)
	j, okJ := livePrice(jpy)
	e, okE := livePrice(etf)
	if !okX || !okJ || !okE {
		return theo, dev
	}

	tv, ok := entity.Finite(x * j * kv).Get()
	if !ok || tv == 0 {
		return theo, dev
	}
	return entity.Some(tv), entity.Finite(e/tv - 1.0)
}

// livePrice は有限かつ正のライブ価格のみを返します。価格0は欠損として扱います。
func livePrice(p entity.Optional[entity.PricePoint]) (float64, bool) {
	pp, ok := p.Get()
	if !ok {
		return 0, false
	}
	v, ok := entity.Finite(pp.Value).Get()
	if !ok || v <= 0 {
		return 0, false
	}
	return v, true
}
