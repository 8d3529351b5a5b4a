// ABOUTME: Centralized configuration defaults for rssedit
// ABOUTME: Contains magic numbers and hardcoded values for fetching, export and display

package config

import "time"

// HTTP settings
const (
	DefaultHTTPTimeout  = 30 * time.Second
	DefaultUserAgent    = "Mozilla/5.0 (compatible; RSS Reader)"
	DefaultAccept       = "application/rss+xml, application/xml, text/xml, */*"
	DefaultMaxBodyBytes = 10 * 1024 * 1024
	DefaultListenAddr   = ":8080"
)

// HTTP API rate limiting, per client IP
const (
	DefaultRateLimitPerMinute = 60
	DefaultRateLimitBurst     = 10
)

// Retry settings
const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = time.Second
)

// Export settings
const (
	DefaultMaxFilenameLength = 100
	DefaultDirPerms          = 0755
	DefaultBatchConcurrency  = 4
	// DefaultBatchRate is how many batch fetches may start per second.
	DefaultBatchRate = 5.0
)

// Display settings
const (
	SeparatorWidth     = 60
	DefaultRenderStyle = "dark"
	DateFormatLong     = "Mon, 02 Jan 2006 15:04 MST"
)

// OPML settings
const (
	OPMLVersion = "2.0"
)
