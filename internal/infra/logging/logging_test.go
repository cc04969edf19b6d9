package logging

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewDefaultsToWarn(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Out: &buf})
	logger.Debug("hidden debug")
	logger.Info("hidden info")
	logger.Warn("shown warn")
	_ = logger.Sync()

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("unexpected low-level output: %q", out)
	}
	if !strings.Contains(out, "shown warn") || !strings.Contains(out, "WARN") {
		t.Fatalf("warn missing: %q", out)
	}
}

func TestNewVerboseLogsDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Out: &buf, Verbose: true})
	logger.Debug("run command")
	_ = logger.Sync()
	if !strings.Contains(buf.String(), "run command") {
		t.Fatalf("debug missing: %q", buf.String())
	}
}

func TestResolveLevel(t *testing.T) {
	cases := []struct {
		name    string
		verbose bool
		want    zapcore.Level
	}{
		{"", false, zapcore.WarnLevel},
		{"", true, zapcore.DebugLevel},
		{"INFO", false, zapcore.InfoLevel},
		{"error", true, zapcore.ErrorLevel},
		{"bogus", false, zapcore.WarnLevel},
	}
	for _, tc := range cases {
		if got := ResolveLevel(tc.name, tc.verbose); got != tc.want {
			t.Errorf("ResolveLevel(%q, %v) = %v, want %v", tc.name, tc.verbose, got, tc.want)
		}
	}
}

func TestKnownLevel(t *testing.T) {
	for _, name := range []string{"debug", "Info", " warn ", "error", "warning"} {
		if !KnownLevel(name) {
			t.Errorf("KnownLevel(%q) = false", name)
		}
	}
	for _, name := range []string{"", "verbose", "fatal"} {
		if KnownLevel(name) {
			t.Errorf("KnownLevel(%q) = true", name)
		}
	}
}
