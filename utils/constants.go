// File: utils/constants.go
package utils

import "time"

// ProofCachePrefix is the prefix for persisted proof-URL cache keys, keyed by order id.
const ProofCachePrefix = "proofURL:"

// QuoteCachePrefix is the prefix for held-quote cache keys, keyed by order id.
const QuoteCachePrefix = "quote:"

// TruckCacheKey holds the preloaded vehicle catalogue.
const TruckCacheKey = "trucks:catalogue"

// QuoteTTL bounds how long an unconfirmed quote may be held before it is
// considered abandoned.
const QuoteTTL = 15 * time.Minute

// TruckCacheTTL is the time-to-live for the preloaded vehicle catalogue.
const TruckCacheTTL = 1 * time.Hour
