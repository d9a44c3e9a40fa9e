// Package influxdb provides the time-series connection used by the
// InfluxDB readings sink.
//
// The server is an InfluxDB 1.x instance addressed through the v2
// client's compatibility layer: credentials become a "user:password"
// token and the database name becomes the bucket. Writes are blocking
// with a per-call timeout; the sink treats a failed write as a
// transient persistence error and reconnects lazily.
package influxdb
