package logx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		" warn ":  LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"bogus":   LevelInfo,
		"":        LevelInfo,
	}

	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "input %q", in)
	}
}

func TestSetLogger_CapturesEntries(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))

	Infof("stored submission %s", "ab12cd34")
	Errorw("append failed", "submission_id", "ab12cd34")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "stored submission ab12cd34", entries[0].Message)
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "ab12cd34", entries[1].ContextMap()["submission_id"])
}

func TestLevelMatchesZap(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, zapcore.Level(LevelDebug))
	assert.Equal(t, zapcore.InfoLevel, zapcore.Level(LevelInfo))
	assert.Equal(t, zapcore.WarnLevel, zapcore.Level(LevelWarn))
	assert.Equal(t, zapcore.ErrorLevel, zapcore.Level(LevelError))
}
