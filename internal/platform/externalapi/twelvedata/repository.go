package twelvedata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"gold_fairvalue/internal/feature/fairvalue/domain/entity"
	"gold_fairvalue/internal/feature/fairvalue/usecase"
	"gold_fairvalue/internal/platform/externalapi/twelvedata/dto"
	"gold_fairvalue/internal/shared/ratelimiter"
)

// ProviderName はシンボル表と出所タグで使うプロバイダー名です。
const ProviderName = "twelvedata"

// maxOutputSize はtime_seriesエンドポイントが一度に返せる最大件数です。
const maxOutputSize = 5000

// intervals はドメインの時間足をTwelve Dataの表記に変換します。
var intervals = map[entity.Interval]string{
	entity.Interval1m:  "1min",
	entity.Interval5m:  "5min",
	entity.Interval15m: "15min",
	entity.Interval1d:  "1day",
}

// TwelveDataMarket はTwelve Data外部APIから金スポットと為替の価格を取得するMarketSource実装です。
type TwelveDataMarket struct {
	cfg     Config
	client  *http.Client
	limiter ratelimiter.RateLimiterInterface
}

// TwelveDataMarketがMarketSourceを実装していることをコンパイル時に検証します。
var _ usecase.MarketSource = (*TwelveDataMarket)(nil)

// NewTwelveDataMarket は指定された設定とHTTPクライアントでTwelveDataMarketの新しいインスタンスを生成します。
// limiterがnilの場合は呼び出し頻度を制限しません。
func NewTwelveDataMarket(cfg Config, client *http.Client, limiter ratelimiter.RateLimiterInterface) *TwelveDataMarket {
	return &TwelveDataMarket{cfg: cfg, client: client, limiter: limiter}
}

// Name はプロバイダー名を返します。
func (t *TwelveDataMarket) Name() string {
	return ProviderName
}

// FetchSeries は終値の時系列を取得します。失敗はすべて値なしとして返します。
func (t *TwelveDataMarket) FetchSeries(ctx context.Context, inst entity.Instrument, g entity.Granularity) entity.Optional[entity.TimeSeries] {
	symbol, ok := inst.Symbol(ProviderName)
	if !ok {
		return entity.None[entity.TimeSeries]()
	}
	series, err := t.GetTimeSeries(ctx, symbol, g)
	if err != nil {
		slog.Warn("twelvedata time_series unavailable",
			"symbol", symbol, "interval", string(g.Interval), "period", string(g.Period), "error", err)
		return entity.None[entity.TimeSeries]()
	}
	return entity.Some(series)
}

// FetchQuote は最新価格を取得します。/price は観測時刻を返さないため、時刻不明として扱います。
func (t *TwelveDataMarket) FetchQuote(ctx context.Context, inst entity.Instrument) entity.Optional[entity.PricePoint] {
	symbol, ok := inst.Symbol(ProviderName)
	if !ok {
		return entity.None[entity.PricePoint]()
	}
	price, err := t.GetPrice(ctx, symbol)
	if err != nil {
		slog.Warn("twelvedata price unavailable", "symbol", symbol, "error", err)
		return entity.None[entity.PricePoint]()
	}
	return entity.Some(entity.QuotePoint(ProviderName, price))
}

// GetTimeSeries はTwelve Data APIから時系列を取得し、時刻昇順のTimeSeriesとして返します。
func (t *TwelveDataMarket) GetTimeSeries(ctx context.Context, symbol string, g entity.Granularity) (entity.TimeSeries, error) {
	interval, ok := intervals[g.Interval]
	if !ok {
		return entity.TimeSeries{}, fmt.Errorf("twelvedata: unsupported interval %q", g.Interval)
	}

	q := url.Values{}
	// クエリパラメータを追加
	q.Set("symbol", symbol)
	q.Set("interval", interval)
	q.Set("outputsize", strconv.Itoa(outputSize(g)))

	var body dto.TimeSeriesResponse
	if err := t.get(ctx, "time_series", q, &body); err != nil {
		return entity.TimeSeries{}, err
	}
	if body.Status == "error" {
		return entity.TimeSeries{}, fmt.Errorf("%w: %d %s", ErrProviderStatus, body.Code, body.Message)
	}

	// タイムゾーン情報がない場合は壁時計をそのまま出力ロケーションの時刻として扱う
	src := t.cfg.Location
	if src == nil {
		src = time.UTC
	}
	convert := false
	if tz := body.Meta.ExchangeTimezone; tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			src = loc
			convert = true
		} else {
			slog.Debug("unknown exchange timezone, keeping wall clock", "timezone", tz, "error", err)
		}
	}

	points := make([]entity.SeriesPoint, 0, len(body.Values))
	for _, v := range body.Values {
		tm, err := parseDatetime(v.Datetime, src)
		if err != nil {
			slog.Debug("skip row with invalid datetime", "symbol", symbol, "datetime", v.Datetime)
			continue
		}
		c, err := strconv.ParseFloat(v.Close, 64)
		if err != nil || math.IsNaN(c) || math.IsInf(c, 0) {
			slog.Debug("skip row with invalid close", "symbol", symbol, "close", v.Close)
			continue
		}

		if convert && t.cfg.Location != nil {
			tm = tm.In(t.cfg.Location)
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
	return series, nil
}

// GetPrice はTwelve Data APIから最新価格を取得します。
func (t *TwelveDataMarket) GetPrice(ctx context.Context, symbol string) (float64, error) {
	q := url.Values{}
	q.Set("symbol", symbol)

	var body dto.PriceResponse
	if err := t.get(ctx, "price", q, &body); err != nil {
		return 0, err
	}
	if body.Status == "error" {
		return 0, fmt.Errorf("%w: %d %s", ErrProviderStatus, body.Code, body.Message)
	}
	if body.Price == "" {
		return 0, ErrEmptyResult
	}

	p, err := strconv.ParseFloat(body.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", body.Price, err)
	}
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return 0, fmt.Errorf("parse price %q: not finite", body.Price)
	}
	return p, nil
}

// get はAPIキーを付与してエンドポイントを呼び出し、JSONをoutにデコードします。
func (t *TwelveDataMarket) get(ctx context.Context, endpoint string, q url.Values, out any) error {
	if t.cfg.TwelveDataAPIKey == "" {
		return ErrNoAPIKey
	}
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}
	q.Set("apikey", t.cfg.TwelveDataAPIKey)

	// URLを生成
	u := fmt.Sprintf("%s/%s?%s", t.cfg.BaseURL, endpoint, q.Encode())

	// リクエストオブジェクトを作成
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	// リクエストを実行
	res, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return fmt.Errorf("%w: twelvedata http %d", ErrProviderStatus, res.StatusCode)
	}

	// JSONレスポンスをDTOにデコード
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

// outputSize は取得件数を決めます。指定がなければ期間内のバー数を上限付きで使います。
func outputSize(g entity.Granularity) int {
	n := g.OutputSize
	if n <= 0 {
		n = g.BarCount()
	}
	if n <= 0 || n > maxOutputSize {
		n = maxOutputSize
	}
	return n
}

func parseDatetime(s string, loc *time.Location) (time.Time, error) {
	tm, err := time.ParseInLocation(time.DateTime, s, loc)
	if err == nil {
		return tm, nil
	}
	return time.ParseInLocation(time.DateOnly, s, loc)
}
