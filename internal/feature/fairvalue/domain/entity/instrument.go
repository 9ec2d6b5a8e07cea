package entity

// InstrumentKey は1回の実行内で銘柄を識別するキーです。
type InstrumentKey string

const (
	// InstrumentXAU は金スポット（USD建て）です。
	InstrumentXAU InstrumentKey = "xau"
	// InstrumentJPY はUSD/JPY為替レートです。
	InstrumentJPY InstrumentKey = "jpy"
	// InstrumentETF は東証上場の金ETF（1540.T）です。
	InstrumentETF InstrumentKey = "etf"
)

// Instrument represents one of the three fixed assets and its
// provider-specific symbols.
type Instrument struct {
	Key         InstrumentKey     // Logical key ("xau", "jpy", "etf")
	Name        string            // Output field name (e.g., "xauusd", "price1540")
	Symbols     map[string]string // Provider name -> provider symbol (e.g., "twelvedata" -> "XAU/USD")
	PreferQuote bool              // Served by a quote-capable provider; the quote is asked first
}

// Symbol は指定プロバイダー用のシンボルを返します。
func (i Instrument) Symbol(provider string) (string, bool) {
	s, ok := i.Symbols[provider]
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
