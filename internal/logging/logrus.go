package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	Level  string
	Format string
	// File enables a rotating log file next to stdout when set.
	File string
}

type LogrusLogger struct {
	entry *logrus.Entry
}

func New(opts Options) (*LogrusLogger, error) {
	l := logrus.New()

	level, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(opts.Level)))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
	}
	l.SetLevel(level)

	if strings.EqualFold(opts.Format, "json") {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	var out io.Writer = os.Stdout
	if opts.File != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    100,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   true,
		})
	}
	l.SetOutput(out)

	return &LogrusLogger{entry: logrus.NewEntry(l)}, nil
}

func NewWithWriter(w io.Writer, level logrus.Level) *LogrusLogger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})
	return &LogrusLogger{entry: logrus.NewEntry(l)}
}

func Discard() *LogrusLogger {
	return NewWithWriter(io.Discard, logrus.PanicLevel)
}

func (l *LogrusLogger) Debug(ctx context.Context, msg string, args ...any) {
	l.withContext(ctx, args).Debug(msg)
}

func (l *LogrusLogger) Info(ctx context.Context, msg string, args ...any) {
	l.withContext(ctx, args).Info(msg)
}

func (l *LogrusLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.withContext(ctx, args).Warn(msg)
}

func (l *LogrusLogger) Error(ctx context.Context, msg string, args ...any) {
	l.withContext(ctx, args).Error(msg)
}

func (l *LogrusLogger) With(args ...any) Logger {
	return &LogrusLogger{entry: l.entry.WithFields(toFields(args))}
}

func (l *LogrusLogger) withContext(ctx context.Context, args []any) *logrus.Entry {
	entry := l.entry
	if ctx != nil {
		entry = entry.WithContext(ctx)
	}
	if fields := fieldsFromContext(ctx); len(fields) > 0 {
		entry = entry.WithFields(toFields(fields))
	}
	if len(args) > 0 {
		entry = entry.WithFields(toFields(args))
	}
	return entry
}

// toFields pairs up keys and values; a dangling key is logged under "!BADKEY"
// the same way slog does.
func toFields(args []any) logrus.Fields {
	fields := make(logrus.Fields, len(args)/2+1)
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		if i+1 >= len(args) {
			fields["!BADKEY"] = key
			break
		}
		value := args[i+1]
		if err, isErr := value.(error); isErr {
			value = err.Error()
		}
		fields[key] = value
	}
	return fields
}
