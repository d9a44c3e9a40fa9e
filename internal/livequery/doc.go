// Package livequery serves the latest reading of every sensor over a
// plain TCP query protocol.
//
// The package keeps an in-memory cache mapping sensor identity to its
// most recent reading, updated on every delivery. Any client connecting
// to the listening port immediately receives a UTF-8 text response, one
// line per known sensor, and the connection is closed: a pull-style
// read, not a subscription stream:
//
//	displayId,engineeringValue unit,timestamp,signalOrDash,type,name,internalId
//
// If the port cannot be bound the cache keeps collecting readings in
// write-only mode and the bind is retried on every delivery.
package livequery
