package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInit(t *testing.T) {
	Init()
	assert.NotNil(t, log)
}

func TestInfo(t *testing.T) {
	var buf bytes.Buffer
	testLogger := NewJSONHandler(&buf, nil)
	log = New(testLogger)

	Info("booking created", "booking_id", 42)

	output := buf.String()
	assert.Contains(t, output, "booking created")
	assert.Contains(t, output, `"booking_id":42`)
}

func TestWarn(t *testing.T) {
	var buf bytes.Buffer
	log = New(NewJSONHandler(&buf, nil))

	Warn("notification skipped")

	assert.Contains(t, buf.String(), `"level":"WARN"`)
}

func TestError(t *testing.T) {
	var buf bytes.Buffer
	testLogger := NewJSONHandler(&buf, nil)
	log = New(testLogger)

	Error("test error")

	output := buf.String()
	assert.Contains(t, output, "test error")
}

func TestDebug(t *testing.T) {
	var buf bytes.Buffer
	opts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	testLogger := NewJSONHandler(&buf, opts)
	log = New(testLogger)

	Debug("test debug")

	output := buf.String()
	assert.Contains(t, output, "test debug")
}

func TestInfof(t *testing.T) {
	var buf bytes.Buffer
	testLogger := NewJSONHandler(&buf, nil)
	log = New(testLogger)

	Infof("test %s", "message")

	output := buf.String()
	assert.Contains(t, output, "test message")
}

func TestErrorf(t *testing.T) {
	var buf bytes.Buffer
	testLogger := NewJSONHandler(&buf, nil)
	log = New(testLogger)

	Errorf("test %s", "error")

	output := buf.String()
	assert.Contains(t, output, "test error")
}

func TestDebugf(t *testing.T) {
	var buf bytes.Buffer
	opts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	testLogger := NewJSONHandler(&buf, opts)
	log = New(testLogger)

	Debugf("test %s", "debug")

	output := buf.String()
	assert.Contains(t, output, "debug")
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	testLogger := NewJSONHandler(&buf, nil)
	log = New(testLogger)

	err := assert.AnError
	logger := WithError(err)
	logger.Info("test with error")

	output := buf.String()
	assert.Contains(t, output, "test with error")
	assert.Contains(t, output, "error")
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	testLogger := NewJSONHandler(&buf, nil)
	log = New(testLogger)

	fields := map[string]any{
		"gym_id":     7,
		"machine_id": "12",
	}
	logger := WithFields(fields)
	logger.Info("test with fields")

	output := buf.String()
	assert.Contains(t, output, "test with fields")
	assert.Contains(t, output, "gym_id")
	assert.Contains(t, output, "machine_id")
}
