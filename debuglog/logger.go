// Package debuglog is the verbosity-leveled console logger. Lines go through
// a stdlib log.Logger to a single line-oriented sink.
package debuglog

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Level is a debug verbosity level.
type Level int

const (
	// Quiet prints nothing at all.
	Quiet Level = iota
	// Progress prints high-level progress messages only.
	Progress
	// Messages prints most messages.
	Messages
	// Verbose prints everything.
	Verbose
)

func (l Level) String() string {
	switch l {
	case Quiet:
		return "quiet"
	case Progress:
		return "progress"
	case Messages:
		return "messages"
	case Verbose:
		return "verbose"
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// Valid reports whether l is one of the defined levels.
func (l Level) Valid() bool { return l >= Quiet && l <= Verbose }

// Logger filters log lines by level.
type Logger struct {
	level Level
	out   io.Writer
	l     *log.Logger
}

// New returns a Logger writing to w. A nil w means os.Stderr.
func New(w io.Writer, level Level) *Logger {
	if w == nil {
		w = os.Stderr
	}
	return &Logger{
		level: level,
		out:   w,
		l:     log.New(w, "", log.LstdFlags),
	}
}

// Discard returns a Logger that prints nothing.
func Discard() *Logger { return New(io.Discard, Quiet) }

// Level returns the configured level.
func (lg *Logger) Level() Level { return lg.level }

// Enabled reports whether lines at level would be printed.
func (lg *Logger) Enabled(level Level) bool {
	return lg != nil && lg.level > Quiet && level <= lg.level
}

// Printf prints a line at level.
func (lg *Logger) Printf(level Level, format string, args ...any) {
	if !lg.Enabled(level) {
		return
	}
	lg.l.Printf(format, args...)
}

// Writer returns the sink. Profiling tables are written here so they
// interleave with log lines.
func (lg *Logger) Writer() io.Writer {
	if lg == nil {
		return io.Discard
	}
	return lg.out
}
