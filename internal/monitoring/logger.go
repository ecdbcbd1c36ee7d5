// Package monitoring carries the process-wide diagnostic logger shared by the
// decoder packages and the command line tools.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf and
// may be redirected (or muted) with SetLogger, e.g. by tests or by tools that
// own their output streams.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. A nil argument installs a no-op
// logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Warnf reports a recoverable anomaly (skipped record, stale leap-second
// table) through the package logger with a uniform prefix so the messages
// stay greppable when interleaved with other output.
func Warnf(format string, v ...interface{}) {
	Logf("warn: "+format, v...)
}
