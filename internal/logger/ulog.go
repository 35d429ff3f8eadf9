package logger

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/fhuszti/stored-images-ms-go/internal/api_context"
)

const serviceName = "stored-images-ms"

var std *slog.Logger

// Options drives the shape of the process logger.
type Options struct {
	JSON      bool
	Level     slog.Level
	AddSource bool
}

// OptionsFromEnv reads
//
//	LOG_FORMAT    json|text (default: json)
//	LOG_LEVEL     debug|info|warn|error (default: info)
//	LOG_SOURCE    true|false (default: false)
func OptionsFromEnv() Options {
	opts := Options{
		JSON:  !strings.EqualFold(os.Getenv("LOG_FORMAT"), "text"),
		Level: slog.LevelInfo,
	}
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		if strings.EqualFold(raw, "warning") {
			raw = "warn"
		}
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(raw)); err == nil {
			opts.Level = lvl
		}
	}
	opts.AddSource, _ = strconv.ParseBool(os.Getenv("LOG_SOURCE"))
	return opts
}

// requestScoped tags every record with the caller (uid, "system" outside a request)
// and the request id when there is one.
type requestScoped struct{ next slog.Handler }

func (h requestScoped) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.next.Enabled(ctx, lvl)
}

func (h requestScoped) Handle(ctx context.Context, r slog.Record) error {
	uid, ok := api_context.AuthUserIDFromContext(ctx)
	if !ok {
		uid = "system"
	}
	r.AddAttrs(slog.String("uid", uid))
	if rid, ok := api_context.RequestIDFromContext(ctx); ok {
		r.AddAttrs(slog.String("rid", rid))
	}
	return h.next.Handle(ctx, r)
}

func (h requestScoped) WithAttrs(a []slog.Attr) slog.Handler {
	return requestScoped{next: h.next.WithAttrs(a)}
}

func (h requestScoped) WithGroup(n string) slog.Handler {
	return requestScoped{next: h.next.WithGroup(n)}
}

// New builds a logger writing to w. It does not touch the process defaults.
func New(w io.Writer, opts Options) *slog.Logger {
	hopts := &slog.HandlerOptions{Level: opts.Level, AddSource: opts.AddSource}

	var base slog.Handler = slog.NewTextHandler(w, hopts)
	if opts.JSON {
		base = slog.NewJSONHandler(w, hopts)
	}
	return slog.New(requestScoped{next: base}).With("svc", serviceName)
}

// Init installs the env-configured logger on stdout.
func Init() {
	InitWithWriter(os.Stdout)
}

// InitWithWriter is Init with a custom sink. Output from the standard log package is routed through it too.
func InitWithWriter(w io.Writer) {
	std = New(w, OptionsFromEnv())
	slog.SetDefault(std)

	log.SetFlags(0)
	log.SetOutput(slog.NewLogLogger(std.Handler(), slog.LevelInfo).Writer())
}

func current() *slog.Logger {
	if std != nil {
		return std
	}
	return slog.Default()
}

func Info(ctx context.Context, msg string, attrs ...any) {
	current().Log(ctx, slog.LevelInfo, msg, attrs...)
}

func Warn(ctx context.Context, msg string, attrs ...any) {
	current().Log(ctx, slog.LevelWarn, msg, attrs...)
}

func Error(ctx context.Context, msg string, attrs ...any) {
	current().Log(ctx, slog.LevelError, msg, attrs...)
}

func Debug(ctx context.Context, msg string, attrs ...any) {
	current().Log(ctx, slog.LevelDebug, msg, attrs...)
}

func logf(ctx context.Context, lvl slog.Level, format string, a ...any) {
	l := current()
	if !l.Enabled(ctx, lvl) {
		return
	}
	l.Log(ctx, lvl, fmt.Sprintf(format, a...))
}

func Infof(ctx context.Context, format string, a ...any)  { logf(ctx, slog.LevelInfo, format, a...) }
func Warnf(ctx context.Context, format string, a ...any)  { logf(ctx, slog.LevelWarn, format, a...) }
func Errorf(ctx context.Context, format string, a ...any) { logf(ctx, slog.LevelError, format, a...) }
func Debugf(ctx context.Context, format string, a ...any) { logf(ctx, slog.LevelDebug, format, a...) }
