package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

// newTestLogger returns a Logger that writes JSON into buf.
func newTestLogger(buf *bytes.Buffer, level slog.Level) *Logger {
	h := slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: level})
	return NewWithHandler(h)
}

// ---------------------------------------------------------------------------
// Logger.Module
// ---------------------------------------------------------------------------

func TestLogger_Module(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf, slog.LevelDebug)
	child := l.Module("confidential")

	child.Info("hello")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal: %v (raw: %s)", err, buf.String())
	}

	if entry["module"] != "confidential" {
		t.Fatalf("module = %v, want %q", entry["module"], "confidential")
	}
	if entry["msg"] != "hello" {
		t.Fatalf("msg = %v, want %q", entry["msg"], "hello")
	}
}

func TestLogger_ModuleChain(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf, slog.LevelDebug)
	child := l.Module("cli").With("command", "prove-range")

	child.Info("proof generated")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal: %v (raw: %s)", err, buf.String())
	}

	if entry["module"] != "cli" {
		t.Fatalf("module = %v, want %q", entry["module"], "cli")
	}
	if entry["command"] != "prove-range" {
		t.Fatalf("command = %v, want %q", entry["command"], "prove-range")
	}
}

// ---------------------------------------------------------------------------
// Logger levels
// ---------------------------------------------------------------------------

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		level  slog.Level
		logFn  func(l *Logger)
		expect bool // whether message should appear
	}{
		{slog.LevelInfo, func(l *Logger) { l.Debug("nope") }, false},
		{slog.LevelInfo, func(l *Logger) { l.Info("yes") }, true},
		{slog.LevelInfo, func(l *Logger) { l.Warn("yes") }, true},
		{slog.LevelInfo, func(l *Logger) { l.Error("yes") }, true},
		{slog.LevelWarn, func(l *Logger) { l.Info("nope") }, false},
		{slog.LevelWarn, func(l *Logger) { l.Warn("yes") }, true},
		{slog.LevelDebug, func(l *Logger) { l.Debug("yes") }, true},
	}

	for i, tt := range tests {
		var buf bytes.Buffer
		l := newTestLogger(&buf, tt.level)
		tt.logFn(l)

		got := buf.Len() > 0
		if got != tt.expect {
			t.Errorf("test %d: output=%v, want %v (level=%v, buf=%s)",
				i, got, tt.expect, tt.level, buf.String())
		}
	}
}

// ---------------------------------------------------------------------------
// Structured key-value args
// ---------------------------------------------------------------------------

func TestLogger_KeyValueArgs(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf, slog.LevelInfo)

	l.Info("credit issued", "bits", 64, "commitment", "0xabc")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	// slog renders numbers as float64 in JSON.
	if v, ok := entry["bits"].(float64); !ok || v != 64 {
		t.Fatalf("bits = %v, want 64", entry["bits"])
	}
	if entry["commitment"] != "0xabc" {
		t.Fatalf("commitment = %v, want %q", entry["commitment"], "0xabc")
	}
}

// ---------------------------------------------------------------------------
// Default logger
// ---------------------------------------------------------------------------

func TestDefaultLogger(t *testing.T) {
	// The package init() sets a default logger; verify it is not nil and
	// does not panic.
	if Default() == nil {
		t.Fatal("Default() returned nil")
	}

	// Replace the default with a test logger and verify the package-level
	// functions use it.
	var buf bytes.Buffer
	l := newTestLogger(&buf, slog.LevelInfo)
	SetDefault(l)
	defer SetDefault(New(slog.LevelInfo)) // restore

	Info("test info", "k", "v")

	if !strings.Contains(buf.String(), "test info") {
		t.Fatalf("output missing 'test info': %s", buf.String())
	}

	// SetDefault(nil) should be a no-op.
	SetDefault(nil)
	if Default() != l {
		t.Fatal("SetDefault(nil) replaced the logger")
	}
}

// ---------------------------------------------------------------------------
// Package-level functions
// ---------------------------------------------------------------------------

func TestPackageLevelFunctions(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf, slog.LevelDebug)
	SetDefault(l)
	defer SetDefault(New(slog.LevelInfo))

	Debug("d")
	Info("i")
	Warn("w")
	Error("e")

	out := buf.String()
	for _, msg := range []string{"d", "i", "w", "e"} {
		if !strings.Contains(out, msg) {
			t.Errorf("missing message %q in output", msg)
		}
	}
}

// ---------------------------------------------------------------------------
// Redaction
// ---------------------------------------------------------------------------

type opening struct{ value uint64 }

func (opening) LogValue() slog.Value { return Redacted() }

func TestLogger_RedactsSecretKeys(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf, slog.LevelInfo)

	l.Info("prove", "secret", "0xdeadbeef", "blinding", 42, "value", 7)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal: %v (raw: %s)", err, buf.String())
	}
	if entry["secret"] != RedactedText || entry["blinding"] != RedactedText {
		t.Fatalf("secret attrs not redacted: %s", buf.String())
	}
	if v, ok := entry["value"].(float64); !ok || v != 7 {
		t.Fatalf("value = %v, want 7", entry["value"])
	}
	if strings.Contains(buf.String(), "deadbeef") {
		t.Fatalf("secret leaked: %s", buf.String())
	}
}

func TestLogger_RedactsWithAndGroups(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf, slog.LevelInfo).With("nonce", "0x1111")

	l.Info("nested", slog.Group("req", slog.String("opening", "0x2222"), slog.Int("bits", 8)))

	out := buf.String()
	if strings.Contains(out, "1111") || strings.Contains(out, "2222") {
		t.Fatalf("secret leaked: %s", out)
	}
	if !strings.Contains(out, `"bits":8`) {
		t.Fatalf("non-secret group attr dropped: %s", out)
	}
}

func TestLogger_LogValuerRedacts(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf, slog.LevelInfo)

	l.Info("holder", "owner", opening{value: 1234567})

	if strings.Contains(buf.String(), "1234567") {
		t.Fatalf("LogValuer bypassed: %s", buf.String())
	}
	if !strings.Contains(buf.String(), RedactedText) {
		t.Fatalf("missing redaction marker: %s", buf.String())
	}
}

// ---------------------------------------------------------------------------
// Formats and levels
// ---------------------------------------------------------------------------

func TestNewWithFormat(t *testing.T) {
	for _, f := range []Format{FormatJSON, FormatTerminal, FormatLogfmt} {
		var buf bytes.Buffer
		l := NewWithFormat(&buf, f, slog.LevelInfo)
		l.Info("range verified", "secret", "0xfeed")
		l.Debug("suppressed")

		out := buf.String()
		if !strings.Contains(out, "range verified") {
			t.Errorf("%s: missing message: %s", f, out)
		}
		if strings.Contains(out, "suppressed") {
			t.Errorf("%s: debug record emitted at info level", f)
		}
		if strings.Contains(out, "feed") {
			t.Errorf("%s: secret leaked: %s", f, out)
		}
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"json": FormatJSON, "JSON": FormatJSON, "": FormatJSON,
		"terminal": FormatTerminal, "logfmt": FormatLogfmt,
	} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug": slog.LevelDebug, "INFO": slog.LevelInfo, "warning": slog.LevelWarn,
		"error": slog.LevelError, "trace": slog.Level(-8), "crit": slog.Level(12),
	} {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestLogger_Enabled(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf, slog.LevelInfo)
	if l.Enabled(slog.LevelDebug) {
		t.Fatal("debug enabled at info level")
	}
	if !l.Enabled(slog.LevelWarn) {
		t.Fatal("warn disabled at info level")
	}
	if Discard().Enabled(slog.LevelError) {
		t.Fatal("discard logger reports enabled")
	}
}
