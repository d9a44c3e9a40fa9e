// Package database provides the SQLite connection used by the
// relational readings sink.
//
// The database is a single local file opened with WAL mode and a busy
// timeout. Schema management is owned by the sink (a single readings
// table created if absent); this package only handles connection
// lifecycle and pragmas.
package database
