package logging

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) (*LogrusLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return NewWithWriter(&buf, logrus.DebugLevel), &buf
}

func TestLogrusLogger_Levels(t *testing.T) {
	log, buf := newTestLogger(t)
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", errors.New("boom"))

	out := buf.String()
	for _, want := range []string{
		"level=debug", "msg=dbg", "a=1",
		"level=info", "msg=inf", "b=2",
		"level=warning", "msg=wrn", "c=3",
		"level=error", "msg=err", "d=boom",
	} {
		assert.Contains(t, out, want)
	}
}

func TestLogrusLogger_WithAndContextFields(t *testing.T) {
	log, buf := newTestLogger(t)
	ctx := ContextWithFields(context.Background(), "request_id", "r-1")
	ctx = ContextWithFields(ctx, "analyst_id", "a-9")

	log.With("component", "sweep").Info(ctx, "hello", "k", "v")

	out := buf.String()
	for _, want := range []string{"component=sweep", "request_id=r-1", "analyst_id=a-9", "k=v"} {
		assert.Contains(t, out, want)
	}
}

func TestLogrusLogger_DanglingKey(t *testing.T) {
	log, buf := newTestLogger(t)
	log.Info(context.Background(), "odd", "lonely")
	assert.Contains(t, buf.String(), "!BADKEY=lonely")
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	_, err := New(Options{Level: "chatty"})
	require.Error(t, err)

	l, err := New(Options{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, l)
}
