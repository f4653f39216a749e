// Package logger provides the slog handler used across the service: a
// compact colored console format for development and plain JSON for
// production.
package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorPurple = "\033[35m"
	colorWhite  = "\033[37m"
)

type Options struct {
	Level     slog.Level
	Format    string // "console" or "json"
	AddSource bool
}

// NewHandler builds the handler for the configured format. Anything other
// than "json" gets the console handler.
func NewHandler(opts Options) slog.Handler {
	if opts.Format == "json" {
		return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:     opts.Level,
			AddSource: opts.AddSource,
		})
	}
	return &ConsoleHandler{
		opts:      &slog.HandlerOptions{Level: opts.Level},
		startTime: time.Now(),
	}
}

// ConsoleHandler prints one colored line per record with elapsed process
// time, for watching an auction run scroll by in a terminal.
type ConsoleHandler struct {
	opts      *slog.HandlerOptions
	startTime time.Time
	attrs     []slog.Attr
	groups    []string
}

func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ConsoleHandler{
		opts:      h.opts,
		startTime: h.startTime,
		attrs:     append(h.attrs[:len(h.attrs):len(h.attrs)], attrs...),
		groups:    h.groups,
	}
}

func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	return &ConsoleHandler{
		opts:      h.opts,
		startTime: h.startTime,
		attrs:     h.attrs,
		groups:    append(h.groups[:len(h.groups):len(h.groups)], name),
	}
}

func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	timestamp := r.Time
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	var levelColor, levelText string
	switch {
	case r.Level >= slog.LevelError:
		levelColor = colorRed
		levelText = "ERROR"
	case r.Level >= slog.LevelWarn:
		levelColor = colorYellow
		levelText = "WARN"
	case r.Level >= slog.LevelInfo:
		levelColor = colorGreen
		levelText = "INFO"
	default:
		levelColor = colorPurple
		levelText = "DEBUG"
	}

	var attrsStr string
	for _, attr := range h.attrs {
		attrsStr += fmt.Sprintf(" %s=%v", h.qualify(attr.Key), attr.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		attrsStr += fmt.Sprintf(" %s=%v", h.qualify(a.Key), a.Value)
		return true
	})

	elapsed := time.Since(h.startTime).Milliseconds()

	fmt.Printf("%s[streamlot] [%s] [%s%s%s] %s%s (+%dms)%s\n",
		colorWhite,
		timestamp.Format("15:04:05"),
		levelColor,
		levelText,
		colorWhite,
		r.Message,
		attrsStr,
		elapsed,
		colorReset,
	)

	return nil
}

func (h *ConsoleHandler) qualify(key string) string {
	for i := len(h.groups) - 1; i >= 0; i-- {
		key = h.groups[i] + "." + key
	}
	return key
}
