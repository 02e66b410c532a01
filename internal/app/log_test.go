package app

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLogHandler_Handle(t *testing.T) {
	ts := time.Date(2024, 6, 15, 14, 30, 45, 0, time.UTC)

	tests := []struct {
		name    string
		opID    string
		level   slog.Level
		message string
		attrs   []slog.Attr
		want    string
	}{
		{
			name:    "basic info message",
			opID:    "op-123",
			level:   slog.LevelInfo,
			message: "imported batch",
			want:    "2024-06-15T14:30:45Z\tINFO\top-123\timported batch\n",
		},
		{
			name:    "debug level",
			opID:    "op-456",
			level:   slog.LevelDebug,
			message: "reading descriptors",
			want:    "2024-06-15T14:30:45Z\tDEBUG\top-456\treading descriptors\n",
		},
		{
			name:    "with record attrs",
			opID:    "op-789",
			level:   slog.LevelInfo,
			message: "skipping invalid record",
			attrs:   []slog.Attr{slog.String("location", "/tmp/packagesite.pkg"), slog.Int("batch", 42)},
			want:    "2024-06-15T14:30:45Z\tINFO\top-789\tskipping invalid record\tlocation=/tmp/packagesite.pkg\tbatch=42\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := &logHandler{w: &buf, opID: tt.opID}

			r := slog.NewRecord(ts, tt.level, tt.message, 0)
			for _, a := range tt.attrs {
				r.AddAttrs(a)
			}

			if err := h.Handle(context.Background(), r); err != nil {
				t.Fatalf("Handle() error = %v", err)
			}

			if got := buf.String(); got != tt.want {
				t.Errorf("Handle() output =\n%q\nwant:\n%q", got, tt.want)
			}
		})
	}
}

func TestLogHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := &logHandler{w: &buf, opID: "op-1"}

	// Add pre-set attrs
	h2 := h.WithAttrs([]slog.Attr{slog.String("component", "importer")}).(*logHandler)

	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r := slog.NewRecord(ts, slog.LevelInfo, "imported", 0)
	r.AddAttrs(slog.String("location", "a.json"))

	if err := h2.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, "component=importer") {
		t.Errorf("expected pre-set attr component=importer, got: %q", got)
	}
	if !strings.Contains(got, "location=a.json") {
		t.Errorf("expected record attr location=a.json, got: %q", got)
	}
}

func TestLogHandler_WithGroup(t *testing.T) {
	var buf bytes.Buffer
	var h slog.Handler = &logHandler{w: &buf, opID: "op-1"}
	h = h.WithAttrs([]slog.Attr{slog.String("component", "server")})
	h = h.WithGroup("request").WithAttrs([]slog.Attr{slog.String("path", "/api/packages")})

	r := slog.NewRecord(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), slog.LevelWarn, "slow request", 0)
	r.AddAttrs(slog.Int("status", 200), slog.Group("timing", slog.Int("ms", 812)))

	if err := h.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	want := "2024-01-01T00:00:00Z\tWARN\top-1\tslow request\tcomponent=server\trequest.path=/api/packages\trequest.status=200\trequest.timing.ms=812\n"
	if got := buf.String(); got != want {
		t.Errorf("Handle() output =\n%q\nwant:\n%q", got, want)
	}
}

func TestLogHandler_WithAttrs_doesNotMutateOriginal(t *testing.T) {
	var buf bytes.Buffer
	h := &logHandler{w: &buf, opID: "op-1", attrs: []slog.Attr{slog.String("a", "1")}}

	h2 := h.WithAttrs([]slog.Attr{slog.String("b", "2")}).(*logHandler)
	h3 := h.WithGroup("g").(*logHandler)

	if len(h.attrs) != 1 {
		t.Errorf("original handler attrs modified: got %d, want 1", len(h.attrs))
	}
	if len(h2.attrs) != 2 {
		t.Errorf("new handler attrs: got %d, want 2", len(h2.attrs))
	}
	if h.prefix != "" || h3.prefix != "g." {
		t.Errorf("prefixes = %q, %q, want \"\", \"g.\"", h.prefix, h3.prefix)
	}
}

func TestLogHandler_Enabled(t *testing.T) {
	levels := []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError}

	t.Run("no minimum", func(t *testing.T) {
		h := &logHandler{}
		for _, level := range levels {
			if !h.Enabled(context.Background(), level) {
				t.Errorf("Enabled(%v) = false, want true", level)
			}
		}
	})

	t.Run("warn minimum", func(t *testing.T) {
		h := &logHandler{level: slog.LevelWarn}
		for _, level := range levels {
			want := level >= slog.LevelWarn
			if got := h.Enabled(context.Background(), level); got != want {
				t.Errorf("Enabled(%v) = %v, want %v", level, got, want)
			}
		}
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "", want: slog.LevelInfo},
		{in: "debug", want: slog.LevelDebug},
		{in: "WARN", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	dir := t.TempDir()

	logger, f, err := newLogger(dir, "test-op", slog.LevelInfo)
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}
	defer f.Close()

	if logger == nil {
		t.Fatal("newLogger() returned nil logger")
	}
	if f == nil {
		t.Fatal("newLogger() returned nil file")
	}
}

func TestNewLogger_WritesLogFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "log")

	logger, f, err := newLogger(dir, "op-7", slog.LevelInfo)
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}
	logger.Debug("reading descriptors")
	logger.Info("import complete", "imported", 3)
	f.Close()

	data, err := os.ReadFile(filepath.Join(dir, "pkgsite.log"))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "\tINFO\top-7\timport complete\timported=3") {
		t.Errorf("log file = %q, want the import line", data)
	}
	if strings.Contains(string(data), "DEBUG") {
		t.Errorf("log file = %q, want debug lines filtered", data)
	}
}
