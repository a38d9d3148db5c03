package utils

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerLevel(t *testing.T) {
	tests := []struct {
		level   string
		want    logrus.Level
		wantErr bool
	}{
		{"", logrus.InfoLevel, false},
		{"debug", logrus.DebugLevel, false},
		{"WARN", logrus.WarnLevel, false},
		{"loud", logrus.InfoLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger, err := newLogger(LogOptions{Level: tt.level})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, logger.GetLevel())
		})
	}
}

func TestNewLoggerWritesFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "nested", "mock.log")
	logger, err := newLogger(LogOptions{File: file})
	require.NoError(t, err)

	logger.WithField("rule", "r1").Info("matched")

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &entry))
	assert.Equal(t, "matched", entry["message"])
	assert.Equal(t, "r1", entry["rule"])
	assert.Contains(t, entry, "@timestamp")
	assert.Contains(t, entry, "goroutine_id")
}

func TestCustomFormatterCaller(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(LogOptions{ReportCaller: true})
	require.NoError(t, err)
	logger.SetOutput(&buf)

	logger.Warn("with caller")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Contains(t, entry["file"], "log_test.go:")
	assert.Equal(t, "warning", entry["level"])
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger())
	assert.Same(t, GetLogger(), GetLogger())
}
