package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Options controls where and how log lines are written.
type Options struct {
	Level  string    // debug, info, warn, error
	JSON   bool      // force JSON output even on a terminal
	Output io.Writer // defaults to os.Stderr
}

var (
	mu  sync.RWMutex
	log = newLogger(Options{Level: "info"})
)

// Init replaces the process logger. It is safe to call more than once.
func Init(opts Options) error {
	if _, err := parseLevel(opts.Level); err != nil {
		return err
	}
	l := newLogger(opts)

	mu.Lock()
	log = l
	mu.Unlock()
	return nil
}

// SetLevel changes the minimum level without touching the output.
func SetLevel(level string) error {
	lvl, err := parseLevel(level)
	if err != nil {
		return err
	}

	mu.Lock()
	log = log.Level(lvl)
	mu.Unlock()
	return nil
}

func newLogger(opts Options) zerolog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	if !opts.JSON && isTerminal(out) {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	lvl, err := parseLevel(opts.Level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

func parseLevel(level string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return zerolog.InfoLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func current() *zerolog.Logger {
	mu.RLock()
	l := log
	mu.RUnlock()
	return &l
}

func write(ev *zerolog.Event, component, message string, fields map[string]interface{}) {
	if ev == nil {
		return
	}
	if component != "" {
		ev = ev.Str("component", component)
	}
	if len(fields) > 0 {
		ev = ev.Fields(fields)
	}
	ev.Msg(message)
}

func DebugC(component, message string) {
	write(current().Debug(), component, message, nil)
}

func DebugCF(component, message string, fields map[string]interface{}) {
	write(current().Debug(), component, message, fields)
}

func InfoC(component, message string) {
	write(current().Info(), component, message, nil)
}

func InfoCF(component, message string, fields map[string]interface{}) {
	write(current().Info(), component, message, fields)
}

func WarnC(component, message string) {
	write(current().Warn(), component, message, nil)
}

func WarnCF(component, message string, fields map[string]interface{}) {
	write(current().Warn(), component, message, fields)
}

func ErrorC(component, message string) {
	write(current().Error(), component, message, nil)
}

func ErrorCF(component, message string, fields map[string]interface{}) {
	write(current().Error(), component, message, fields)
}
