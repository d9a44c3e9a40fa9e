// Package sink defines the output contract for sensor readings and the
// dispatcher that fans readings out to every configured destination.
//
// A Sink receives one Deliver call per reading. The Dispatcher isolates
// failures: a sink that errors or panics is logged and skipped, and the
// remaining sinks still receive the reading. Simple sinks (log, file,
// sqlite, influxdb) live here; the stateful sinks (live-query cache,
// MQTT discovery publisher) live in their own packages and satisfy the
// same interface.
//
// Persistence sinks open their targets lazily and retry the open on the
// next delivery after a failure, so a temporarily missing file or
// unreachable database degrades to logged errors rather than lost
// process state.
package sink
