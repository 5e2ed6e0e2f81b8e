// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

/*
Package constants provides centralized, immutable values for the entire platform.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Headers: Request and proxy header names.
  - Marketplace: Fixed product values (bio limit, listing image cap, admin locations).
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "bazaari-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	// Identity frame uploads are the largest bodies we accept.
	DefaultReadTimeout = 15 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 20 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second

	// WizardSweepInterval is how often abandoned wizard instances are evicted.
	WizardSweepInterval = 1 * time.Minute
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 50.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 100

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Identity

// TokenAudience is the audience the hosted auth provider stamps on user access tokens.
const TokenAudience = "authenticated"

// # Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderAPIKey        = "apikey"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldMeta    = "meta"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldStatus  = "status"
	FieldChecks  = "checks"
)

// # Redis Channels

const (
	// RedisChannelSessionEvents carries sign-in, sign-out and user-updated events.
	RedisChannelSessionEvents = "auth:session_events"

	// RedisChannelInboxPrefix is followed by the receiver id and carries new messages.
	RedisChannelInboxPrefix = "messaging:inbox:"
)

// # Marketplace

const (
	// BioMaxLength is the maximum rune count of a profile bio.
	BioMaxLength = 160

	// ListingMaxImages is the maximum number of images attached to one listing.
	ListingMaxImages = 5

	// MaxFrameBytes caps a single uploaded identity document frame.
	MaxFrameBytes = 8 << 20

	// MessageMaxLength is the maximum rune count of one chat message.
	MessageMaxLength = 2000
)

// Locations lists the divisions a listing can be placed in.
var Locations = []string{
	"Dhaka", "Chattogram", "Sylhet", "Rajshahi",
	"Khulna", "Barishal", "Rangpur", "Mymensingh",
}
