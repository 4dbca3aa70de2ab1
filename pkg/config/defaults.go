package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "campusalloc"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultDirectoryBaseURL = "http://localhost:8081"

	DefaultEventsEnabled  = false
	DefaultEventsTopic    = "allocation-events"
	DefaultEventsDLQTopic = "allocation-events-dlq"

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// A single booking may span at most this long, and may start at most
	// this far in the future.
	DefaultMaxBookingDuration = 12 * time.Hour
	DefaultBookingHorizon     = 90 * 24 * time.Hour

	DefaultPaginationLimit = 100
)
