// Package logging writes diagnostic lines to stderr.
//
// Stdout belongs to the MCP stdio transport of the launched server, so nothing in
// this module may log there.
package logging

import (
	"io"
	"log"
	"os"
	"sync"
)

// Prefix is prepended to every diagnostic line.
const Prefix = "[devtools-mcp] "

var (
	mu       sync.RWMutex
	disabled = false
	verbose  = false
	logger   = log.New(os.Stderr, Prefix, 0)
)

// Disable turns off all logging
func Disable() {
	mu.Lock()
	disabled = true
	mu.Unlock()
}

// Enable turns logging back on
func Enable() {
	mu.Lock()
	disabled = false
	mu.Unlock()
}

// SetVerbose controls whether Debug lines are written.
func SetVerbose(v bool) {
	mu.Lock()
	verbose = v
	mu.Unlock()
}

// SetOutput redirects all log lines to w.
func SetOutput(w io.Writer) {
	mu.Lock()
	logger.SetOutput(w)
	mu.Unlock()
}

func enabled(debug bool) bool {
	mu.RLock()
	defer mu.RUnlock()
	if disabled {
		return false
	}
	return !debug || verbose
}

// Infof logs a formatted info message
func Infof(format string, v ...any) {
	if enabled(false) {
		logger.Printf(format, v...)
	}
}

// Warnf logs a formatted warning message
func Warnf(format string, v ...any) {
	if enabled(false) {
		logger.Printf("warning: "+format, v...)
	}
}

// Debugf logs a formatted debug message, only in verbose mode
func Debugf(format string, v ...any) {
	if enabled(true) {
		logger.Printf(format, v...)
	}
}

// Logger carries a fixed set of leading fields, e.g. a launch id.
type Logger struct {
	tag string
}

// With returns a Logger that prefixes each line with tag.
func With(tag string) Logger {
	return Logger{tag: tag}
}

func (l Logger) prefix(format string) string {
	if l.tag == "" {
		return format
	}
	return l.tag + " " + format
}

// Infof logs a formatted info message
func (l Logger) Infof(format string, v ...any) {
	Infof(l.prefix(format), v...)
}

// Warnf logs a formatted warning message
func (l Logger) Warnf(format string, v ...any) {
	Warnf(l.prefix(format), v...)
}

// Debugf logs a formatted debug message
func (l Logger) Debugf(format string, v ...any) {
	Debugf(l.prefix(format), v...)
}
