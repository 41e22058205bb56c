package logger

import (
	"path/filepath"
	"testing"
	"werise_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLevelFor(t *testing.T) {
	tests := []struct {
		name  string
		mode  string
		level string
		want  zapcore.Level
	}{
		{"debug mode", "debug", "", zap.DebugLevel},
		{"release mode", "release", "", zap.InfoLevel},
		{"explicit level wins", "debug", "warn", zap.WarnLevel},
		{"unknown level falls back", "release", "loud", zap.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{Server: config.ServerConfig{Mode: tt.mode}, Log: config.LogConfig{Level: tt.level}}
			assert.Equal(t, tt.want, levelFor(cfg))
		})
	}
}

func TestForDevice(t *testing.T) {
	prev := Log
	t.Cleanup(func() { Log = prev })

	core, logs := observer.New(zap.InfoLevel)
	Log = zap.New(core)

	ForDevice("kiosk-7").Info("hello")
	ForDevice("").Info("anonymous")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "kiosk-7", entries[0].ContextMap()["device"])
	assert.Equal(t, "default", entries[1].ContextMap()["device"])
}

func TestInitLogger_WritesFile(t *testing.T) {
	prev := Log
	t.Cleanup(func() { Log = prev })

	file := filepath.Join(t.TempDir(), "werise.log")
	InitLogger(&config.Config{
		Server: config.ServerConfig{Mode: "release"},
		Log:    config.LogConfig{File: file, MaxSizeMB: 1},
	})
	assert.False(t, Log.Core().Enabled(zap.DebugLevel))
	assert.True(t, Log.Core().Enabled(zap.InfoLevel))
}
