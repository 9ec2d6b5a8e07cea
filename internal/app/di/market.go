// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	"gold_fairvalue/internal/feature/fairvalue/domain/entity"
	"gold_fairvalue/internal/feature/fairvalue/usecase"
	"gold_fairvalue/internal/platform/config"
	"gold_fairvalue/internal/platform/externalapi/twelvedata"
	"gold_fairvalue/internal/platform/externalapi/yahoo"
	infrahttp "gold_fairvalue/internal/platform/http"
	"gold_fairvalue/internal/shared/ratelimiter"
)

// NewTwelveData creates a TwelveDataMarket with an HTTP client and the credit rate limiter.
func NewTwelveData(cfg *config.Config) *twelvedata.TwelveDataMarket {
	tdCfg := twelvedata.Config{
		TwelveDataAPIKey: cfg.TwelveData.APIKey,
		BaseURL:          cfg.TwelveData.BaseURL,
		Timeout:          cfg.HTTPTimeout,
		Location:         config.JST,
	}
	httpClient := infrahttp.NewHTTPClient(tdCfg.Timeout)
	limiter := ratelimiter.NewRateLimiter(cfg.TwelveData.RequestsPerMinute, time.Minute)
	return twelvedata.NewTwelveDataMarket(tdCfg, httpClient, limiter)
}

// NewYahoo creates a YahooMarket with an HTTP client.
func NewYahoo(cfg *config.Config) *yahoo.YahooMarket {
	yCfg := yahoo.Config{
		BaseURL:   cfg.Yahoo.BaseURL,
		UserAgent: cfg.Yahoo.UserAgent,
		Timeout:   cfg.HTTPTimeout,
		Location:  config.JST,
	}
	httpClient := infrahttp.NewHTTPClient(yCfg.Timeout)
	return yahoo.NewYahooMarket(yCfg, httpClient)
}

// NewFeeds binds the three instruments to their providers:
// gold and FX to Twelve Data (quote-capable), the ETF to Yahoo (bar history).
func NewFeeds(cfg *config.Config, td usecase.MarketSource, yh usecase.MarketSource) usecase.Feeds {
	return usecase.Feeds{
		XAU: usecase.Feed{
			Instrument: entity.Instrument{
				Key:         entity.InstrumentXAU,
				Name:        "xauusd",
				Symbols:     map[string]string{td.Name(): cfg.TwelveData.XAUSymbol},
				PreferQuote: true,
			},
			Source: td,
		},
		JPY: usecase.Feed{
			Instrument: entity.Instrument{
				Key:         entity.InstrumentJPY,
				Name:        "usdjpy",
				Symbols:     map[string]string{td.Name(): cfg.TwelveData.JPYSymbol},
				PreferQuote: true,
			},
			Source: td,
		},
		ETF: usecase.Feed{
			Instrument: entity.Instrument{
				Key:     entity.InstrumentETF,
				Name:    "price1540",
				Symbols: map[string]string{yh.Name(): cfg.Yahoo.ETFSymbol},
			},
			Source: yh,
		},
	}
}

// NewModes builds the three estimation modes from the configured windows.
func NewModes(cfg *config.Config) []entity.Mode {
	m := cfg.Modes
	return entity.NewModes(m.DayWindow, m.DayAlignTail, m.Window5m, m.Window15m)
}

// NewSanityBounds builds the plausibility bounds from configuration.
func NewSanityBounds(cfg *config.Config) usecase.SanityBounds {
	s := cfg.Sanity
	return usecase.SanityBounds{
		XAU: usecase.Bounds{Min: s.XAUMin, Max: s.XAUMax},
		JPY: usecase.Bounds{Min: s.JPYMin, Max: s.JPYMax},
		ETF: usecase.Bounds{Min: s.ETFMin, Max: s.ETFMax},
	}
}
