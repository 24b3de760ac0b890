package constants

import (
	"fmt"
	"time"
)

// Centralized Redis keys and TTLs.
// Pattern: ticketly:{module}:{operation}:{identifier}

const CACHE_PREFIX = "ticketly"

// TTL tiers
const (
	TTL_SEMI_STATIC = 2 * time.Hour    // event details, seat plans
	TTL_DYNAMIC     = 2 * time.Minute  // availability snapshots
	TTL_REALTIME    = 30 * time.Second // live seat status
)

// ================== SEATS MODULE ==================

const (
	CACHE_KEY_HOLD         = CACHE_PREFIX + ":seats:hold:"          // + hold-id (mirror, expires with the hold)
	CACHE_KEY_HOLD_WARNED  = CACHE_PREFIX + ":seats:hold_warned:"   // + hold-id (expiring-soon dedup marker)
	CACHE_KEY_AVAILABILITY = CACHE_PREFIX + ":seats:availability:"  // + event-id
	CACHE_KEY_SEAT_PLAN    = CACHE_PREFIX + ":seats:plan:"          // + event-id
	RATELIMIT_KEY_HOLD     = CACHE_PREFIX + ":ratelimit:seat_hold:" // + session-id
)

// ================== EVENTS MODULE ==================

const (
	CACHE_KEY_EVENT_DETAIL = CACHE_PREFIX + ":events:detail:uuid:" // + event-id
)

// ================== REALTIME MODULE ==================

// Per-event broadcast channel; the websocket gateway subscribes to these.
const CHANNEL_EVENT_PREFIX = "event:"

func BuildHoldKey(holdID string) string {
	return CACHE_KEY_HOLD + holdID
}

func BuildHoldWarnedKey(holdID string) string {
	return CACHE_KEY_HOLD_WARNED + holdID
}

func BuildAvailabilityKey(eventID string) string {
	return CACHE_KEY_AVAILABILITY + eventID
}

func BuildSeatPlanKey(eventID string) string {
	return CACHE_KEY_SEAT_PLAN + eventID
}

func BuildEventDetailKey(eventID string) string {
	return CACHE_KEY_EVENT_DETAIL + eventID
}

func BuildHoldRateLimitKey(sessionID string, window int64) string {
	return fmt.Sprintf("%s%s:%d", RATELIMIT_KEY_HOLD, sessionID, window)
}

func BuildEventChannel(eventID string) string {
	return CHANNEL_EVENT_PREFIX + eventID
}
