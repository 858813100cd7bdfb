package colortrack

import (
	"log"
	"sync/atomic"
)

// LogFunc is a printf-style logging function
type LogFunc func(format string, v ...interface{})

var logger atomic.Pointer[LogFunc]

func init() {
	SetLogger(log.Printf)
}

// Logf writes a diagnostic message through the current logger. It defaults to log.Printf
// and is safe to call while SetLogger runs on another goroutine.
func Logf(format string, v ...interface{}) {
	(*logger.Load())(format, v...)
}

// SetLogger replaces the package logger. Passing nil mutes logging.
func SetLogger(f LogFunc) {
	if f == nil {
		f = func(string, ...interface{}) {}
	}
	logger.Store(&f)
}
