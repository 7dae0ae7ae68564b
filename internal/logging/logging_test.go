package logging

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    log.Level
		wantErr bool
	}{
		{"", log.InfoLevel, false},
		{"info", log.InfoLevel, false},
		{"DEBUG", log.DebugLevel, false},
		{" warn ", log.WarnLevel, false},
		{"warning", log.WarnLevel, false},
		{"error", log.ErrorLevel, false},
		{"verbose", log.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: "warn", Writer: &buf})

	logger.Info("info message should be filtered")
	logger.Warn("warn message should appear")

	out := buf.String()
	assert.NotContains(t, out, "info message should be filtered")
	assert.Contains(t, out, "warn message should appear")
	assert.Equal(t, log.WarnLevel, logger.Level())
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: "loud", Writer: &buf})

	assert.Equal(t, log.InfoLevel, logger.Level())
	logger.Info("hello")
	assert.Contains(t, buf.String(), "hello")
}

func TestNewTestLogger_CapturesKeyvals(t *testing.T) {
	logger, buf := NewTestLogger()

	logger.Debug("profile loaded", "id", "java-spring-backend")

	out := buf.String()
	assert.Contains(t, out, "profile loaded")
	assert.Contains(t, out, "java-spring-backend")
}

func TestWith_AddsContext(t *testing.T) {
	logger, buf := NewTestLogger()

	logger.With("tool", "search").Info("called")

	assert.True(t, strings.Contains(buf.String(), "tool=search"), "got: %s", buf.String())
}

func TestLogPerformance(t *testing.T) {
	logger, buf := NewTestLogger()

	logger.LogPerformance("index build", time.Now().Add(-10*time.Millisecond))

	out := buf.String()
	assert.Contains(t, out, "Performance")
	assert.Contains(t, out, "index build")
}

func TestSetDefault(t *testing.T) {
	orig := GetDefault()
	t.Cleanup(func() { SetDefault(orig) })

	logger, buf := NewTestLogger()
	SetDefault(logger)

	Info("through package function")
	assert.Contains(t, buf.String(), "through package function")
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	// Must not panic and must not write anywhere observable.
	logger.Error("dropped")
	assert.Equal(t, log.FatalLevel, logger.Level())
}
