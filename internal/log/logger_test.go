package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"DEBUG", slog.LevelDebug, false},
		{"warning", slog.LevelWarn, false},
		{" error ", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWithComponentTagsOnce(t *testing.T) {
	var buf bytes.Buffer
	base := New(Config{Handler: slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})})
	l := base.WithComponent(ComponentList)
	l.Info("page loaded", FieldPage, 2)

	out := buf.String()
	if strings.Count(out, "component=") != 1 || !strings.Contains(out, "component=list") {
		t.Fatalf("expected a single list component, got %q", out)
	}
	if l.Component() != ComponentList {
		t.Fatalf("Component() = %q", l.Component())
	}
}

func TestTrace(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Handler: slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})})

	l.Trace(context.Background(), OpRefresh, nil)
	if !strings.Contains(buf.String(), "level=DEBUG") {
		t.Fatalf("success should log at debug: %q", buf.String())
	}
	buf.Reset()
	l.Trace(context.Background(), OpDelete, errors.New("boom"), FieldTxID, 7)
	out := buf.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "error=boom") || !strings.Contains(out, "transaction_id=7") {
		t.Fatalf("failure should log at warn with error: %q", out)
	}
}

func TestLogFields(t *testing.T) {
	f := NewFields().
		WithHTTPRequest("GET", "/api/balance", "").
		WithHTTPResponse(200, 12, true).
		WithError(nil)
	if _, ok := f[FieldQuery]; ok {
		t.Error("empty query should be omitted")
	}
	if _, ok := f[FieldError]; ok {
		t.Error("nil error should be omitted")
	}
	if len(f.ToSlice()) != 2*len(f) {
		t.Errorf("ToSlice length = %d, want %d", len(f.ToSlice()), 2*len(f))
	}
}
