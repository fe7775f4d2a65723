package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestLogger(t *testing.T, level string) (*GoLogging, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return New(&buf, "neuraread-test-"+t.Name(), level), &buf
}

func TestGoLogging_Levels(t *testing.T) {
	log, buf := newTestLogger(t, "debug")
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	out := buf.String()
	tests := []struct {
		level string
		msg   string
		kv    string
	}{
		{"DEBUG", "dbg", "a=1"},
		{"INFO", "inf", "b=2"},
		{"WARNING", "wrn", "c=3"},
		{"ERROR", "err", "d=4"},
	}
	for _, tc := range tests {
		assert.Contains(t, out, tc.level)
		assert.Contains(t, out, tc.msg+" "+tc.kv)
	}
}

func TestGoLogging_LevelFilter(t *testing.T) {
	log, buf := newTestLogger(t, "warning")
	ctx := context.Background()

	log.Info(ctx, "hidden")
	log.Warn(ctx, "shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestGoLogging_UnknownLevelDefaultsToInfo(t *testing.T) {
	log, buf := newTestLogger(t, "loud")
	ctx := context.Background()

	log.Debug(ctx, "hidden")
	log.Info(ctx, "shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestGoLogging_WithAndRequestID(t *testing.T) {
	log, buf := newTestLogger(t, "info")
	child := log.With("component", "catalog")
	ctx := WithRequestID(context.Background(), "req-1")

	child.Info(ctx, "book created", "book_id", 9)
	log.Info(context.Background(), "parent")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if assert.Len(t, lines, 2) {
		assert.Contains(t, lines[0], "book created request_id=req-1 component=catalog book_id=9")
		assert.NotContains(t, lines[1], "component=")
	}
}

func TestGoLogging_OddArgs(t *testing.T) {
	log, buf := newTestLogger(t, "info")
	log.Info(context.Background(), "odd", "lonely")
	assert.Contains(t, buf.String(), "!BADKEY=lonely")
}

func TestNop(t *testing.T) {
	l := NewNop()
	l.With("a", 1).Info(context.Background(), "nothing")
}
