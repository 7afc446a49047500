package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestNewWithWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf)

	log.Info().Msg("statement parsed")

	if !strings.Contains(buf.String(), "statement parsed") {
		t.Errorf("expected output to contain message, got: %s", buf.String())
	}
}

func TestForRequest(t *testing.T) {
	buf := &bytes.Buffer{}
	log := ForRequest(NewWithWriter(buf), "req-42")

	log.Info().Msg("analysis started")

	out := buf.String()
	if !strings.Contains(out, "req-42") {
		t.Errorf("expected request id in output, got: %s", out)
	}
}

func TestContextRoundTrip(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf)
	ctx := WithContext(context.Background(), log)

	got := FromContext(ctx)
	got.Info().Msg("from context")

	if !strings.Contains(buf.String(), "from context") {
		t.Error("logger from context did not write to original buffer")
	}
}
