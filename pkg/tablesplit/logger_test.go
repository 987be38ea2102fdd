package tablesplit

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger(t *testing.T) {
	tests := []struct {
		name        string
		level       LogLevel
		expected    []string
		notExpected []string
	}{
		{
			name:     "debug level shows all messages",
			level:    LogDebug,
			expected: []string{"[DEBUG] debug message", "[INFO] info message", "[WARN] warn message", "[ERROR] error message"},
		},
		{
			name:        "info level hides debug messages",
			level:       LogInfo,
			expected:    []string{"[INFO] info message", "[WARN] warn message", "[ERROR] error message"},
			notExpected: []string{"[DEBUG]"},
		},
		{
			name:        "error level shows only errors",
			level:       LogError,
			expected:    []string{"[ERROR] error message"},
			notExpected: []string{"[DEBUG]", "[INFO]", "[WARN]"},
		},
		{
			name:        "off hides everything",
			level:       LogOff,
			notExpected: []string{"message"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(&buf, tt.level)
			logger.Debug("debug message")
			logger.Info("info message")
			logger.Warn("warn message")
			logger.Error("error message")

			output := buf.String()
			for _, want := range tt.expected {
				assert.Contains(t, output, want)
			}
			for _, unwanted := range tt.notExpected {
				assert.NotContains(t, output, unwanted)
			}
		})
	}
}

func TestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	base := NewLogger(&buf, LogInfo)
	derived := base.WithField("region", "items").WithFields(Fields{"attempt": 2, "type": RegionRepeatTable})

	derived.Info("split %d tables", 3)
	base.Info("plain")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], "[INFO] split 3 tables attempt=2 region=items type=RepeatTable"), lines[0])
	assert.True(t, strings.HasSuffix(lines[1], "[INFO] plain"), lines[1])
}

func TestLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LogInfo)
	assert.False(t, logger.IsDebugMode())

	logger.SetLevel(LogDebug)
	assert.True(t, logger.IsDebugMode())
	logger.Debug("now visible")
	assert.Contains(t, buf.String(), "now visible")
}

func TestLogger_ConcurrentDerivedLoggers(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LogInfo)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			logger.WithField("worker", n).Info("done")
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, strings.Count(buf.String(), "[INFO] done worker="))
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   LogDebug,
		"INFO":    LogInfo,
		"Warn":    LogWarn,
		"error":   LogError,
		"off":     LogOff,
		"unknown": LogInfo,
		"":        LogInfo,
	}
	for input, want := range tests {
		assert.Equal(t, want, ParseLogLevel(input), input)
	}
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}

func TestNewLogger_NilWriter(t *testing.T) {
	logger := NewLogger(nil, LogDebug)
	assert.NotPanics(t, func() { logger.Error("discarded") })
}
