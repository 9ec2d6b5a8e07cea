// Package yahoo provides a client for the Yahoo Finance chart API.
package yahoo

import "time"

// Config holds configuration for the Yahoo Finance chart client.
type Config struct {
	BaseURL   string         // Base URL for the API (e.g., "https://query1.finance.yahoo.com")
	UserAgent string         // Sent with every request; the API rejects empty agents
	Timeout   time.Duration  // HTTP request timeout
	Location  *time.Location // Zone returned timestamps are converted to (nil keeps UTC)
}
