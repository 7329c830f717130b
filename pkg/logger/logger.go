// Package logger provides context-aware structured logging on top of logrus.
// Diagnostic output goes through here; user-facing messages belong to the
// presenter package.
package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	// G is a convenience alias for GetLogger.
	G = GetLogger
	// L is the global logger entry used when a context carries none.
	L = logrus.NewEntry(newLogger())
)

type loggerKey struct{}

// Options configures the global logger.
type Options struct {
	Level  string
	Format string
	Output io.Writer
}

// DefaultLevel keeps store diagnostics out of the way of command output.
const DefaultLevel = "warn"

// WithLogger attaches a logger entry to ctx.
func WithLogger(ctx context.Context, logger *logrus.Entry) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger.WithContext(ctx))
}

// GetLogger returns the entry stored in ctx, or L bound to ctx.
func GetLogger(ctx context.Context) *logrus.Entry {
	if logger, ok := ctx.Value(loggerKey{}).(*logrus.Entry); ok {
		return logger
	}
	return L.WithContext(ctx)
}

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.WarnLevel)
	setFormat(l, "fmt")
	return l
}

func setFormat(l *logrus.Logger, format string) {
	switch format {
	case "json":
		l.Formatter = &logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "logLevel",
				logrus.FieldKeyMsg:   "message",
			},
			TimestampFormat: time.RFC3339Nano,
		}
	default:
		l.Formatter = &logrus.TextFormatter{
			TimestampFormat: time.RFC3339Nano,
			FullTimestamp:   true,
		}
	}
}

// Configure applies opts to the global logger. Empty fields are left as they
// are.
func Configure(opts Options) error {
	return configure(L.Logger, opts)
}

func configure(l *logrus.Logger, opts Options) error {
	if opts.Level != "" {
		level, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return errors.Wrapf(err, "invalid log level %q", opts.Level)
		}
		l.SetLevel(level)
	}
	if opts.Format != "" {
		setFormat(l, opts.Format)
	}
	if opts.Output != nil {
		l.SetOutput(opts.Output)
	}
	return nil
}

