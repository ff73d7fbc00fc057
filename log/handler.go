package log

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	gethlog "github.com/ethereum/go-ethereum/log"
)

// Format selects the record encoding of a handler.
type Format string

const (
	FormatJSON     Format = "json"
	FormatTerminal Format = "terminal"
	FormatLogfmt   Format = "logfmt"
)

// ParseFormat parses a format name. The match is case-insensitive.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatTerminal, FormatLogfmt:
		return f, nil
	case "":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("log: unknown format %q", s)
}

// ParseLevel parses a level name, accepting the go-ethereum trace and crit
// levels alongside the slog ones. The match is case-insensitive.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return gethlog.LevelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	case "crit":
		return gethlog.LevelCrit, nil
	}
	return slog.LevelInfo, fmt.Errorf("log: unknown level %q", s)
}

// ---------------------------------------------------------------------------
// Redaction
// ---------------------------------------------------------------------------

// RedactedText replaces the value of every redacted attribute.
const RedactedText = "[redacted]"

// SecretKeys are attribute keys that every Logger redacts. Values of types
// that implement slog.LogValuer redact themselves regardless of key.
var SecretKeys = []string{"secret", "blinding", "opening", "nonce"}

// Redacted returns the value logged in place of a secret.
func Redacted() slog.Value { return slog.StringValue(RedactedText) }

type redactHandler struct {
	next slog.Handler
	keys []string
}

// Redact wraps h so that attributes whose key is in keys, at any group
// depth, are replaced with RedactedText before h sees them.
func Redact(h slog.Handler, keys ...string) slog.Handler {
	if r, ok := h.(*redactHandler); ok {
		return &redactHandler{next: r.next, keys: append(slices.Clone(r.keys), keys...)}
	}
	return &redactHandler{next: h, keys: keys}
}

func (h *redactHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *redactHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.redact(a))
		return true
	})
	return h.next.Handle(ctx, out)
}

func (h *redactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clean := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		clean[i] = h.redact(a)
	}
	return &redactHandler{next: h.next.WithAttrs(clean), keys: h.keys}
}

func (h *redactHandler) WithGroup(name string) slog.Handler {
	return &redactHandler{next: h.next.WithGroup(name), keys: h.keys}
}

func (h *redactHandler) redact(a slog.Attr) slog.Attr {
	if slices.Contains(h.keys, a.Key) {
		return slog.Attr{Key: a.Key, Value: Redacted()}
	}
	v := a.Value.Resolve()
	if v.Kind() != slog.KindGroup {
		return slog.Attr{Key: a.Key, Value: v}
	}
	group := v.Group()
	clean := make([]slog.Attr, len(group))
	for i, ga := range group {
		clean[i] = h.redact(ga)
	}
	return slog.Attr{Key: a.Key, Value: slog.GroupValue(clean...)}
}
