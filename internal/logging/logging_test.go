package logging

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewDefaultsToWarn(t *testing.T) {
	t.Setenv(LevelEnv, "")
	buf := &bytes.Buffer{}
	logger := New(buf, Options{})

	logger.Info("hidden")
	logger.Warn("shown", zap.String("device", "/dev/fd0"))
	_ = logger.Sync()

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("expected info to be filtered, got: %s", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "/dev/fd0") {
		t.Fatalf("expected warn line with field, got: %s", out)
	}
}

func TestNewVerboseEnablesDebug(t *testing.T) {
	t.Setenv(LevelEnv, "")
	buf := &bytes.Buffer{}
	logger := New(buf, Options{Verbose: true})
	logger.Debug("running command")
	_ = logger.Sync()

	if !strings.Contains(buf.String(), "running command") {
		t.Fatalf("expected debug output, got: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	if got := parseLevel("error", zapcore.WarnLevel); got != zapcore.ErrorLevel {
		t.Fatalf("parseLevel(error) = %v", got)
	}
	if got := parseLevel("bogus", zapcore.WarnLevel); got != zapcore.WarnLevel {
		t.Fatalf("parseLevel(bogus) = %v", got)
	}
}
