// Package twelvedata provides a client for the Twelve Data market data API.
package twelvedata

import "time"

// Config holds configuration for the Twelve Data API client.
type Config struct {
	TwelveDataAPIKey string         // API key for authentication; empty disables the client
	BaseURL          string         // Base URL for the API (e.g., "https://api.twelvedata.com")
	Timeout          time.Duration  // HTTP request timeout
	Location         *time.Location // Zone returned timestamps are converted to (nil keeps the exchange zone)
}
