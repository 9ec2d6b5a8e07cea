// Package config はスナップショットバッチの設定を読み込みます。
//
// 優先順位は 環境変数 > YAMLファイル > 既定値 です。
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// JST は出力と日足の結合キーに使う固定のUTC+9ゾーンです。
var JST = time.FixedZone("JST", 9*60*60)

// Config はバッチ全体の設定です。
type Config struct {
	OutputPath  string        `yaml:"output_path" default:"data.json" validate:"required"`
	RunTimeout  time.Duration `yaml:"run_timeout" default:"2m" validate:"gt=0"`
	HTTPTimeout time.Duration `yaml:"http_timeout" default:"10s" validate:"gt=0"`
	LogLevel    string        `yaml:"log_level" default:"info" validate:"oneof=debug info warn error"`

	TwelveData  TwelveData  `yaml:"twelvedata"`
	Yahoo       Yahoo       `yaml:"yahoo"`
	Modes       Modes       `yaml:"modes"`
	Sanity      Sanity      `yaml:"sanity"`
	Redis       Redis       `yaml:"redis"`
	Database    Database    `yaml:"database"`
	Pushgateway Pushgateway `yaml:"pushgateway"`
}

// TwelveData は金スポットと為替の取得設定です。APIKeyが空の場合、両銘柄は値なしになります。
type TwelveData struct {
	APIKey            string `yaml:"api_key"`
	BaseURL           string `yaml:"base_url" default:"https://api.twelvedata.com" validate:"required,url"`
	RequestsPerMinute int    `yaml:"requests_per_minute" default:"8" validate:"gte=0"`
	XAUSymbol         string `yaml:"xau_symbol" default:"XAU/USD" validate:"required"`
	JPYSymbol         string `yaml:"jpy_symbol" default:"USD/JPY" validate:"required"`
}

// Yahoo はETFの取得設定です。
type Yahoo struct {
	BaseURL   string `yaml:"base_url" default:"https://query1.finance.yahoo.com" validate:"required,url"`
	UserAgent string `yaml:"user_agent" default:"Mozilla/5.0 (compatible; gold-fairvalue/1.0)"`
	ETFSymbol string `yaml:"etf_symbol" default:"1540.T" validate:"required"`
}

// Modes は各モードの回帰ウィンドウです。
type Modes struct {
	DayWindow    int `yaml:"day_window" default:"3" validate:"min=1"`
	DayAlignTail int `yaml:"day_align_tail" default:"10" validate:"gte=0"`
	Window5m     int `yaml:"window_5m" default:"36" validate:"min=1"`
	Window15m    int `yaml:"window_15m" default:"32" validate:"min=1"`
}

// Sanity はライブ価格の妥当範囲です。
type Sanity struct {
	XAUMin float64 `yaml:"xau_min" default:"500" validate:"gte=0"`
	XAUMax float64 `yaml:"xau_max" default:"10000" validate:"gtfield=XAUMin"`
	JPYMin float64 `yaml:"jpy_min" default:"50" validate:"gte=0"`
	JPYMax float64 `yaml:"jpy_max" default:"300" validate:"gtfield=JPYMin"`
	ETFMin float64 `yaml:"etf_min" default:"1000" validate:"gte=0"`
	ETFMax float64 `yaml:"etf_max" default:"200000" validate:"gtfield=ETFMin"`
}

// Redis は最新スナップショットを置くRedisの設定です。Hostが空なら使用しません。
type Redis struct {
	Host     string        `yaml:"host"`
	Port     string        `yaml:"port" default:"6379"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db" validate:"gte=0"`
	Key      string        `yaml:"key" default:"gold_fairvalue:latest" validate:"required"`
	TTL      time.Duration `yaml:"ttl" default:"24h" validate:"gte=0"`
}

// Database は最新スナップショットを置くSQLの設定です。DSNが空なら使用しません。
type Database struct {
	DSN            string        `yaml:"dsn"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" default:"10s" validate:"gt=0"`
}

// Pushgateway はメトリクス送信先の設定です。URLが空なら使用しません。
type Pushgateway struct {
	URL string `yaml:"url" validate:"omitempty,url"`
	Job string `yaml:"job" default:"gold_fairvalue" validate:"required"`
}

// Load は既定値を設定し、pathが空でなければYAMLを重ね、環境変数で上書きしてから検証します。
func Load(path string) (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("set defaults: %w", err)
	}

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := c.applyEnv(); err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// applyEnv は設定済みの環境変数で値を上書きします。
func (c *Config) applyEnv() error {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setString("SNAPSHOT_PATH", &c.OutputPath)
	setString("LOG_LEVEL", &c.LogLevel)
	setString("TWELVE_DATA_API_KEY", &c.TwelveData.APIKey)
	setString("TWELVE_DATA_BASE_URL", &c.TwelveData.BaseURL)
	setString("YAHOO_BASE_URL", &c.Yahoo.BaseURL)
	setString("REDIS_HOST", &c.Redis.Host)
	setString("REDIS_PORT", &c.Redis.Port)
	setString("REDIS_PASSWORD", &c.Redis.Password)
	setString("SNAPSHOT_DB_DSN", &c.Database.DSN)
	setString("PUSHGATEWAY_URL", &c.Pushgateway.URL)

	if v := os.Getenv("TWELVE_DATA_RPM"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TWELVE_DATA_RPM: %w", err)
		}
		c.TwelveData.RequestsPerMinute = n
	}
	return nil
}

// Validate は設定値を検証します。
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%s: failed on %q", verrs[0].Namespace(), verrs[0].Tag())
		}
		return err
	}
	return nil
}
