// Package monitoring holds the diagnostic logging hook shared by camframe
// packages.
package monitoring

import (
	"log"
	"sync"
)

var (
	mu   sync.RWMutex
	logf = log.Printf
)

// Logf writes a diagnostic line through the current logger. It defaults to
// log.Printf.
func Logf(format string, v ...interface{}) {
	mu.RLock()
	f := logf
	mu.RUnlock()
	f(format, v...)
}

// SetLogger replaces the package logger and returns the previous one so
// tests can restore it. Passing nil mutes logging.
func SetLogger(f func(format string, v ...interface{})) (prev func(format string, v ...interface{})) {
	mu.Lock()
	defer mu.Unlock()
	prev = logf
	if f == nil {
		logf = func(string, ...interface{}) {}
		return prev
	}
	logf = f
	return prev
}
