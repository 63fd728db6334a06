// Package logging constructs the prefixed loggers used across stagesync.
package logging

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// New returns a logger writing to w in the "[prefix] " style used
// throughout the codebase. A nil writer defaults to stderr.
func New(prefix string, w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	return log.New(w, "["+prefix+"] ", log.LstdFlags)
}

// NewRotating returns a logger writing to a size-rotated file, used by
// watch mode where a session can run for weeks.
func NewRotating(path, prefix string) *log.Logger {
	w := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
	return log.New(w, "["+prefix+"] ", log.LstdFlags)
}
