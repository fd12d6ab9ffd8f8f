package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_LevelsAndFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapLogger(zap.New(core))
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	entries := logs.AllUntimed()
	require.Len(t, entries, 4)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "inf", entries[1].Message)
	assert.Equal(t, int64(2), entries[1].ContextMap()["b"])
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
}

func TestZapLogger_With_AddsFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := NewZapLogger(zap.New(core)).With("module", "store")

	log.Info(context.Background(), "saved", "key", "session")

	entries := logs.AllUntimed()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "store", fields["module"])
	assert.Equal(t, "session", fields["key"])
}

func TestNew_Formats(t *testing.T) {
	for _, format := range []string{"", FormatText, FormatJSON, FormatZap} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			log, err := New(&buf, format, "info")
			require.NoError(t, err)

			log.Info(context.Background(), "hello", "k", "v")
			log.Debug(context.Background(), "hidden")

			out := buf.String()
			assert.Contains(t, out, "hello")
			assert.NotContains(t, out, "hidden")
		})
	}
}

func TestNew_Errors(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "xml", "info")
	require.Error(t, err)

	_, err = New(&bytes.Buffer{}, FormatText, "loud")
	require.Error(t, err)
}

func TestNopLogger_DoesNothing(t *testing.T) {
	var l Logger = NopLogger{}
	l.With("a", 1).Info(context.Background(), "x")
}
