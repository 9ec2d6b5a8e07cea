package twelvedata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"gold_fairvalue/internal/feature/fairvalue/domain/entity"
)

var jst = time.FixedZone("JST", 9*60*60)

var gold = entity.Instrument{
	Key:         entity.InstrumentXAU,
	Name:        "xauusd",
	Symbols:     map[string]string{ProviderName: "XAU/USD"},
	PreferQuote: true,
}

var g5m = entity.Granularity{Interval: entity.Interval5m, Period: entity.Period5d}

// stubLimiter はRateLimiterInterfaceのモック実装です。
type stubLimiter struct {
	err   error
	calls int
}

func (s *stubLimiter) Wait(context.Context) error {
	s.calls++
	return s.err
}

func newServer(t *testing.T, body string) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, &hits
}

func newMarket(server *httptest.Server, key string) *TwelveDataMarket {
	cfg := Config{
		TwelveDataAPIKey: key,
		BaseURL:          server.URL,
		Location:         jst,
	}
	return NewTwelveDataMarket(cfg, server.Client(), nil)
}

func TestNewTwelveDataMarket(t *testing.T) {
	t.Parallel()

	cfg := Config{
		TwelveDataAPIKey: "test-key",
		BaseURL:          "https://api.test.com",
		Timeout:          10 * time.Second,
	}
	client := &http.Client{}

	market := NewTwelveDataMarket(cfg, client, nil)

	if market == nil {
		t.Fatal("expected non-nil market")
	}
	if market.cfg.TwelveDataAPIKey != cfg.TwelveDataAPIKey {
		t.Errorf("expected API key %q, got %q", cfg.TwelveDataAPIKey, market.cfg.TwelveDataAPIKey)
	}
	if market.Name() != "twelvedata" {
		t.Errorf("expected provider name twelvedata, got %q", market.Name())
	}
}

func TestTwelveDataMarket_GetTimeSeries_Success(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Verify request parameters
		if r.URL.Path != "/time_series" {
			t.Errorf("expected path /time_series, got %s", r.URL.Path)
		}
		if r.URL.Query().Get("symbol") != "XAU/USD" {
			t.Errorf("expected symbol XAU/USD, got %s", r.URL.Query().Get("symbol"))
		}
		if r.URL.Query().Get("interval") != "5min" {
			t.Errorf("expected interval 5min, got %s", r.URL.Query().Get("interval"))
		}
		if r.URL.Query().Get("outputsize") != "1440" {
			t.Errorf("expected outputsize 1440, got %s", r.URL.Query().Get("outputsize"))
		}
		if r.URL.Query().Get("apikey") != "test-key" {
			t.Errorf("expected apikey test-key, got %s", r.URL.Query().Get("apikey"))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		// Twelve Data は新しい順に返す
		_, _ = w.Write([]byte(`{
			"meta": {"symbol": "XAU/USD", "interval": "5min", "exchange_timezone": "UTC"},
			"values": [
				{"datetime": "2025-01-15 09:35:00", "close": "2651.50"},
				{"datetime": "2025-01-15 09:30:00", "close": "2650.00"}
			],
			"status": "ok"
		}`))
	}))
	defer server.Close()

	market := newMarket(server, "test-key")

	series, err := market.GetTimeSeries(context.Background(), "XAU/USD", g5m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if series.Len() != 2 {
		t.Fatalf("expected 2 points, got %d", series.Len())
	}

	// 昇順に並び替えられ、JSTに変換されていること
	first := series.Points[0]
	if first.Value != 2650.00 {
		t.Errorf("expected close 2650.00, got %f", first.Value)
	}
	want := time.Date(2025, 1, 15, 18, 30, 0, 0, jst)
	if !first.Time.Equal(want) {
		t.Errorf("expected time %v, got %v", want, first.Time)
	}
	if first.Time.Location() != jst {
		t.Errorf("expected JST location, got %v", first.Time.Location())
	}
}

func TestTwelveDataMarket_GetTimeSeries_DailyKeyedByDate(t *testing.T) {
	t.Parallel()

	server, _ := newServer(t, `{
		"meta": {"exchange_timezone": "UTC"},
		"values": [
			{"datetime": "2025-01-15", "close": "2650.00"},
			{"datetime": "2025-01-14", "close": "2640.00"}
		],
		"status": "ok"
	}`)
	market := newMarket(server, "test-key")

	g := entity.Granularity{Interval: entity.Interval1d, Period: entity.Period1mo}
	series, err := market.GetTimeSeries(context.Background(), "XAU/USD", g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	last, _ := series.Last()
	want := time.Date(2025, 1, 15, 0, 0, 0, 0, jst)
	if !last.Time.Equal(want) {
		t.Errorf("expected daily bar keyed at %v, got %v", want, last.Time)
	}
}

func TestTwelveDataMarket_GetTimeSeries_WithoutTimezoneKeepsWallClock(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		meta string
	}{
		{name: "meta missing", meta: ""},
		{name: "empty timezone", meta: `"meta": {"exchange_timezone": ""},`},
		{name: "unknown timezone", meta: `"meta": {"exchange_timezone": "Mars/Olympus"},`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			server, _ := newServer(t, `{`+tc.meta+`
				"values": [{"datetime": "2025-01-15 09:30:00", "close": "2650.00"}],
				"status": "ok"
			}`)
			market := newMarket(server, "test-key")

			series, err := market.GetTimeSeries(context.Background(), "XAU/USD", g5m)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if series.Len() != 1 {
				t.Fatalf("expected 1 point, got %d", series.Len())
			}
			want := time.Date(2025, 1, 15, 9, 30, 0, 0, jst)
			got := series.Points[0].Time
			if !got.Equal(want) {
				t.Errorf("expected wall clock %v, got %v", want, got)
			}
			if got.Format("15:04") != "09:30" {
				t.Errorf("expected 09:30, got %s", got.Format("15:04"))
			}
		})
	}
}

func TestTwelveDataMarket_GetTimeSeries_SkipsInvalidRows(t *testing.T) {
	t.Parallel()

	server, _ := newServer(t, `{
		"values": [
			{"datetime": "2025-01-15 09:40:00", "close": "abc"},
			{"datetime": "invalid-date", "close": "2652.00"},
			{"datetime": "2025-01-15 09:35:00", "close": "NaN"},
			{"datetime": "2025-01-15 09:30:00", "close": "2650.00"}
		],
		"status": "ok"
	}`)
	market := newMarket(server, "test-key")

	series, err := market.GetTimeSeries(context.Background(), "XAU/USD", g5m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if series.Len() != 1 {
		t.Fatalf("expected 1 valid point, got %d", series.Len())
	}
	if series.Points[0].Value != 2650.00 {
		t.Errorf("expected close 2650.00, got %f", series.Points[0].Value)
	}
}

func TestTwelveDataMarket_GetTimeSeries_EmptyResult(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"no values", `{"values": [], "status": "ok"}`},
		{"all closes invalid", `{"values": [{"datetime": "2025-01-15", "close": "xyz"}], "status": "ok"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server, _ := newServer(t, tt.body)
			market := newMarket(server, "test-key")

			_, err := market.GetTimeSeries(context.Background(), "XAU/USD", g5m)
			if !errors.Is(err, ErrEmptyResult) {
				t.Errorf("expected ErrEmptyResult, got %v", err)
			}
		})
	}
}

func TestTwelveDataMarket_GetTimeSeries_HTTPError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		statusCode int
	}{
		{"bad request", http.StatusBadRequest},
		{"unauthorized", http.StatusUnauthorized},
		{"too many requests", http.StatusTooManyRequests},
		{"internal server error", http.StatusInternalServerError},
		{"service unavailable", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			}))
			defer server.Close()

			market := newMarket(server, "test-key")

			_, err := market.GetTimeSeries(context.Background(), "XAU/USD", g5m)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrProviderStatus) {
				t.Errorf("expected ErrProviderStatus, got %v", err)
			}
			if !strings.Contains(err.Error(), "twelvedata http") {
				t.Errorf("expected HTTP error message, got %v", err)
			}

			// 公開メソッドでは値なしになる
			if market.FetchSeries(context.Background(), gold, g5m).IsPresent() {
				t.Error("expected absent series")
			}
		})
	}
}

func TestTwelveDataMarket_GetTimeSeries_APIError(t *testing.T) {
	t.Parallel()

	server, _ := newServer(t, `{
		"code": 401,
		"message": "Invalid API key",
		"status": "error"
	}`)
	market := newMarket(server, "invalid-key")

	_, err := market.GetTimeSeries(context.Background(), "XAU/USD", g5m)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, ErrProviderStatus) {
		t.Errorf("expected ErrProviderStatus, got %v", err)
	}
	if !strings.Contains(err.Error(), "Invalid API key") {
		t.Errorf("expected API error message, got %v", err)
	}
}

func TestTwelveDataMarket_GetTimeSeries_InvalidJSON(t *testing.T) {
	t.Parallel()

	server, _ := newServer(t, `{invalid json`)
	market := newMarket(server, "test-key")

	_, err := market.GetTimeSeries(context.Background(), "XAU/USD", g5m)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if market.FetchSeries(context.Background(), gold, g5m).IsPresent() {
		t.Error("expected absent series")
	}
}

func TestTwelveDataMarket_MissingAPIKey_NoNetwork(t *testing.T) {
	t.Parallel()

	server, hits := newServer(t, `{"price": "2650.00"}`)
	market := newMarket(server, "")

	if _, err := market.GetPrice(context.Background(), "XAU/USD"); !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("expected ErrNoAPIKey, got %v", err)
	}
	if market.FetchQuote(context.Background(), gold).IsPresent() {
		t.Error("expected absent quote")
	}
	if market.FetchSeries(context.Background(), gold, g5m).IsPresent() {
		t.Error("expected absent series")
	}
	if n := atomic.LoadInt32(hits); n != 0 {
		t.Errorf("expected no requests without api key, got %d", n)
	}
}

func TestTwelveDataMarket_UnknownSymbol(t *testing.T) {
	t.Parallel()

	server, hits := newServer(t, `{"price": "2650.00"}`)
	market := newMarket(server, "test-key")

	etf := entity.Instrument{Key: entity.InstrumentETF, Symbols: map[string]string{"yahoo": "1540.T"}}
	if market.FetchQuote(context.Background(), etf).IsPresent() {
		t.Error("expected absent quote for instrument without twelvedata symbol")
	}
	if n := atomic.LoadInt32(hits); n != 0 {
		t.Errorf("expected no requests, got %d", n)
	}
}

func TestTwelveDataMarket_FetchQuote(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		body          string
		expectPresent bool
		expectValue   float64
	}{
		{"success", `{"price": "2650.25"}`, true, 2650.25},
		{"api error", `{"code": 404, "message": "symbol not found", "status": "error"}`, false, 0},
		{"empty price", `{}`, false, 0},
		{"unparsable price", `{"price": "n/a"}`, false, 0},
		{"non-finite price", `{"price": "Inf"}`, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server, _ := newServer(t, tt.body)
			market := newMarket(server, "test-key")

			p, ok := market.FetchQuote(context.Background(), gold).Get()
			if ok != tt.expectPresent {
				t.Fatalf("expected present=%v, got %v", tt.expectPresent, ok)
			}
			if !ok {
				return
			}
			if p.Value != tt.expectValue {
				t.Errorf("expected value %f, got %f", tt.expectValue, p.Value)
			}
			if p.Source.TimeKnown {
				t.Error("quote must not claim a known timestamp")
			}
			if p.Source.Tag() != "twelvedata:quote" {
				t.Errorf("expected tag twelvedata:quote, got %q", p.Source.Tag())
			}
		})
	}
}

func TestTwelveDataMarket_RateLimiter(t *testing.T) {
	t.Parallel()

	t.Run("waits before each request", func(t *testing.T) {
		t.Parallel()

		server, hits := newServer(t, `{"price": "2650.00"}`)
		limiter := &stubLimiter{}
		market := NewTwelveDataMarket(Config{TwelveDataAPIKey: "k", BaseURL: server.URL}, server.Client(), limiter)

		_ = market.FetchQuote(context.Background(), gold)
		_ = market.FetchQuote(context.Background(), gold)

		if limiter.calls != 2 {
			t.Errorf("expected 2 limiter calls, got %d", limiter.calls)
		}
		if n := atomic.LoadInt32(hits); n != 2 {
			t.Errorf("expected 2 requests, got %d", n)
		}
	})

	t.Run("limiter error skips the request", func(t *testing.T) {
		t.Parallel()

		server, hits := newServer(t, `{"price": "2650.00"}`)
		limiter := &stubLimiter{err: context.DeadlineExceeded}
		market := NewTwelveDataMarket(Config{TwelveDataAPIKey: "k", BaseURL: server.URL}, server.Client(), limiter)

		_, err := market.GetPrice(context.Background(), "XAU/USD")
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected deadline error, got %v", err)
		}
		if n := atomic.LoadInt32(hits); n != 0 {
			t.Errorf("expected no requests, got %d", n)
		}
	})
}

func TestOutputSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		g    entity.Granularity
		want int
	}{
		{"explicit", entity.Granularity{Interval: entity.Interval1m, Period: entity.Period1d, OutputSize: 5}, 5},
		{"derived from period", entity.Granularity{Interval: entity.Interval1m, Period: entity.Period1d}, 1440},
		{"daily month", entity.Granularity{Interval: entity.Interval1d, Period: entity.Period1mo}, 30},
		{"capped", entity.Granularity{Interval: entity.Interval15m, Period: entity.Period60d}, 5000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := outputSize(tt.g); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}
