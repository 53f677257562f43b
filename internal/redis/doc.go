// Package redis implements the Redis-backed shared-state stores.
//
// Provides CooldownStore (SET NX alert deduplication) and TrendStore
// (sorted-set trend windows), plus client hooks for metrics and circuit
// breaker protection. Used when the watchdog runs with more than one
// replica; single instances use the in-memory stores instead.
package redis
