// Package diag implements the CUPS-style prefixed diagnostic channel
// described for the ipptransform CLI: lines on stderr tagged DEBUG:, INFO:,
// ATTR:, STATE:, and ERROR: that a calling print server parses as job
// progress. The prefixes are a wire contract with the caller, not a human
// log format.
package diag

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Level controls which prefixed lines are emitted.
type Level int

const (
	LevelError Level = iota
	LevelInfo
	LevelDebug
)

// Channel writes prefixed diagnostic lines to an underlying writer,
// serialized by a mutex since XFORM and the status monitor may both write
// to it (the monitor from its own goroutine).
type Channel struct {
	mu       sync.Mutex
	w        io.Writer
	level    Level
	embedded bool // when true, all lines are forced to ERROR: per SERVER_LOGLEVEL contract
}

// New creates a Channel writing to w at the given level. embedded mirrors
// the CUPS filter convention where SERVER_LOGLEVEL being set means the
// process is running inside cupsd, which only scrapes ERROR: lines.
func New(w io.Writer, level Level, embedded bool) *Channel {
	return &Channel{w: w, level: level, embedded: embedded}
}

// NewStderr builds a Channel from the conventional IPPTRANSFORM_DEBUG and
// SERVER_LOGLEVEL environment variables.
func NewStderr() *Channel {
	level := LevelInfo
	if os.Getenv("IPPTRANSFORM_DEBUG") != "" {
		level = LevelDebug
	}
	_, embedded := os.LookupEnv("SERVER_LOGLEVEL")
	return New(os.Stderr, level, embedded)
}

func (c *Channel) line(prefix, format string, args ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.embedded {
		prefix = "ERROR:"
	}
	fmt.Fprintf(c.w, "%s %s\n", prefix, fmt.Sprintf(format, args...))
}

// Debug emits a DEBUG: line if the channel's level allows it.
func (c *Channel) Debug(format string, args ...interface{}) {
	if c.level < LevelDebug {
		return
	}
	c.line("DEBUG:", format, args...)
}

// Info emits an INFO: line if the channel's level allows it.
func (c *Channel) Info(format string, args ...interface{}) {
	if c.level < LevelInfo {
		return
	}
	c.line("INFO:", format, args...)
}

// Error emits an ERROR: line unconditionally.
func (c *Channel) Error(format string, args ...interface{}) {
	c.line("ERROR:", format, args...)
}

// Attr emits an ATTR: line reporting an IPP job attribute change.
func (c *Channel) Attr(format string, args ...interface{}) {
	c.line("ATTR:", format, args...)
}

// State emits a STATE: line reporting a printer-state-reasons change.
func (c *Channel) State(format string, args ...interface{}) {
	c.line("STATE:", format, args...)
}
