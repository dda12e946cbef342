package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf)

	log.Info().Str("merchant", "Coffee Shop").Msg("expense added")

	out := buf.String()
	if !strings.Contains(out, `"merchant":"Coffee Shop"`) {
		t.Errorf("field missing from output: %s", out)
	}
	if !strings.Contains(out, "expense added") {
		t.Errorf("message missing from output: %s", out)
	}
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf).With().Str("component", "test").Logger()

	ctx := WithContext(context.Background(), log)
	got := FromContext(ctx)
	got.Info().Msg("hello")

	if !strings.Contains(buf.String(), `"component":"test"`) {
		t.Errorf("context logger not preserved: %s", buf.String())
	}
}

func TestFromContextDefault(t *testing.T) {
	// Must not panic and must return a usable logger.
	log := FromContext(context.Background())
	log.Debug().Msg("default logger")
}
