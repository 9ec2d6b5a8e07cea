package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"time"

	"gold_fairvalue/internal/feature/fairvalue/domain/entity"
	"gold_fairvalue/internal/feature/fairvalue/usecase"
	"gold_fairvalue/internal/platform/externalapi/yahoo/dto"
)

// ProviderName はシンボル表と出所タグで使うプロバイダー名です。
const ProviderName = "yahoo"

// YahooMarket はYahoo Financeのチャートエンドポイントから価格を取得するMarketSource実装です。
// 認証は不要です。
type YahooMarket struct {
	cfg    Config
	client *http.Client
}

// YahooMarketがMarketSourceを実装していることをコンパイル時に検証します。
var _ usecase.MarketSource = (*YahooMarket)(nil)

// NewYahooMarket は指定された設定とHTTPクライアントでYahooMarketの新しいインスタンスを生成します。
func NewYahooMarket(cfg Config, client *http.Client) *YahooMarket {
	return &YahooMarket{cfg: cfg, client: client}
}

// Name はプロバイダー名を返します。
func (y *YahooMarket) Name() string {
	return ProviderName
}

// FetchSeries は終値の時系列を取得します。失敗はすべて値なしとして返します。
func (y *YahooMarket) FetchSeries(ctx context.Context, inst entity.Instrument, g entity.Granularity) entity.Optional[entity.TimeSeries] {
	symbol, ok := inst.Symbol(ProviderName)
	if !ok {
		return entity.None[entity.TimeSeries]()
	}
	series, err := y.GetChart(ctx, symbol, g)
	if err != nil {
		slog.Warn("yahoo chart unavailable",
			"symbol", symbol, "interval", string(g.Interval), "period", string(g.Period), "error", err)
		return entity.None[entity.TimeSeries]()
	}
	return entity.Some(series)
}

// FetchQuote はチャートのmeta.regularMarketPriceを最新気配として返します。観測時刻は不明として扱います。
func (y *YahooMarket) FetchQuote(ctx context.Context, inst entity.Instrument) entity.Optional[entity.PricePoint] {
	symbol, ok := inst.Symbol(ProviderName)
	if !ok {
		return entity.None[entity.PricePoint]()
	}
	price, err := y.GetRegularMarketPrice(ctx, symbol)
	if err != nil {
		slog.Warn("yahoo quote unavailable", "symbol", symbol, "error", err)
		return entity.None[entity.PricePoint]()
	}
	return entity.Some(entity.QuotePoint(ProviderName, price))
}

// GetChart はチャートAPIからrange/intervalを指定して時系列を取得します。
// OutputSizeが指定されている場合は末尾の件数のみを残します。
func (y *YahooMarket) GetChart(ctx context.Context, symbol string, g entity.Granularity) (entity.TimeSeries, error) {
	result, err := y.chart(ctx, symbol, string(g.Period), string(g.Interval))
	if err != nil {
		return entity.TimeSeries{}, err
	}

	var closes []*float64
	if len(result.Indicators.Quote) > 0 {
		closes = result.Indicators.Quote[0].Close
	}

	points := make([]entity.SeriesPoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		// 取引のないバーはnullになる
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		c := *closes[i]
		if math.IsNaN(c) || math.IsInf(c, 0) {
			continue
		}

		tm := time.Unix(ts, 0).UTC()
		if y.cfg.Location != nil {
			tm = tm.In(y.cfg.Location)
		}
		if g.IsDaily() {
			tm = entity.DateOf(tm)
		}
		points = append(points, entity.SeriesPoint{Time: tm, Value: c})
	}

	series := entity.NewTimeSeries(symbol, g, points)
	if series.Len() == 0 {
		return entity.TimeSeries{}, ErrEmptyResult
	}
	if g.OutputSize > 0 {
		series = series.Tail(g.OutputSize)
	}
	return series, nil
}

// GetRegularMarketPrice はチャートのメタ情報から最新価格を取得します。
func (y *YahooMarket) GetRegularMarketPrice(ctx context.Context, symbol string) (float64, error) {
	result, err := y.chart(ctx, symbol, string(entity.Period1d), string(entity.Interval1d))
	if err != nil {
		return 0, err
	}
	p := result.Meta.RegularMarketPrice
	if p == nil {
		return 0, ErrEmptyResult
	}
	if math.IsNaN(*p) || math.IsInf(*p, 0) {
		return 0, fmt.Errorf("regularMarketPrice %v: not finite", *p)
	}
	return *p, nil
}

// chart はチャートエンドポイントを呼び出し、最初の結果を返します。
func (y *YahooMarket) chart(ctx context.Context, symbol, rng, interval string) (dto.ChartResult, error) {
	q := url.Values{}
	q.Set("range", rng)
	q.Set("interval", interval)

	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", y.cfg.BaseURL, url.PathEscape(symbol), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return dto.ChartResult{}, err
	}
	if y.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", y.cfg.UserAgent)
	}

	res, err := y.client.Do(req)
	if err != nil {
		return dto.ChartResult{}, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	var body dto.ChartResponse
	decodeErr := json.NewDecoder(res.Body).Decode(&body)

	// エラー時も本文にchart.errorが入っていることが多い
	if body.Chart.Error != nil {
		return dto.ChartResult{}, fmt.Errorf("%w: %s: %s", ErrProviderStatus, body.Chart.Error.Code, body.Chart.Error.Description)
	}
	if res.StatusCode >= 400 {
		return dto.ChartResult{}, fmt.Errorf("%w: yahoo http %d", ErrProviderStatus, res.StatusCode)
	}
	if decodeErr != nil {
		return dto.ChartResult{}, fmt.Errorf("decode chart response: %w", decodeErr)
	}
	if len(body.Chart.Result) == 0 {
		return dto.ChartResult{}, ErrEmptyResult
	}
	return body.Chart.Result[0], nil
}
