package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/pinsync/internal/adapters/logger"
	"go.trai.ch/pinsync/internal/core/ports"
	"go.trai.ch/zerr"
)

func TestLogger_ImplementsPorts(_ *testing.T) {
	var _ ports.Logger = (*logger.Logger)(nil)
	var _ ports.LogSettings = (*logger.Logger)(nil)
}

func TestLogger_QuietByDefault(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	lg := logger.New()
	lg.SetOutput(&buf)

	lg.Info("hidden")
	lg.Warn("shown")

	assert.Equal(t, "! shown\n", buf.String())
}

func TestLogger_Verbose(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	lg := logger.New()
	lg.SetOutput(&buf)
	lg.SetVerbose(true)

	lg.Info("updated 3 pins")
	assert.Equal(t, "updated 3 pins\n", buf.String())

	buf.Reset()
	lg.SetVerbose(false)
	lg.Info("hidden again")
	assert.Empty(t, buf.String())
}

func TestLogger_Error_Pretty(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	lg := logger.New()
	lg.SetOutput(&buf)

	err := zerr.With(zerr.Wrap(errors.New("permission denied"), "failed to replace target manifest"), "path", "flutter/DEPS")
	lg.Error(err)

	want := "✗ Error: failed to replace target manifest\n" +
		"       path: flutter/DEPS\n\n" +
		"  Caused by:\n" +
		"    → permission denied\n"
	assert.Equal(t, want, buf.String())
}

func TestLogger_Error_Nil(t *testing.T) {
	var buf bytes.Buffer
	lg := logger.New()
	lg.SetOutput(&buf)

	lg.Error(nil)
	assert.Empty(t, buf.String())
}

func TestLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	lg := logger.New()
	lg.SetJSON(true)
	lg.SetOutput(&buf)

	lg.Error(zerr.With(zerr.New("dependencies missing from source manifest"), "keys", "dart_y"))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "ERROR", rec["level"])
	assert.Equal(t, "dependencies missing from source manifest", rec["msg"])

	causes, ok := rec["causes"].([]any)
	require.True(t, ok)
	require.Len(t, causes, 1)
	first, ok := causes[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"keys": "dart_y"}, first["metadata"])
}

func TestLogger_SetOutputNil(t *testing.T) {
	lg := logger.New()
	assert.NotPanics(t, func() {
		lg.SetOutput(nil)
	})
}
