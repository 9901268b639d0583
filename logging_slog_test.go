package cimba

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/joeycumines/logiface"
	islog "github.com/joeycumines/logiface-slog"
	"github.com/stretchr/testify/require"
)

// NewSlogLogger must produce a working logiface.Logger backed by the
// standard library's slog, independent of Simulation's own text backend.
func TestNewSlogLogger_WritesStructuredRecords(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := NewSlogLogger(handler)
	require.NotNil(t, logger)

	logger.Info().Str("resource", "printer").Log("acquired")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	require.Equal(t, "acquired", rec["msg"])
	require.Equal(t, "printer", rec["resource"])
}

// Extra options passed to NewSlogLogger must still apply; here the minimum
// level is raised past Debug, so a Debug-level record never reaches the
// handler.
func TestNewSlogLogger_FiltersBelowConfiguredLevel(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := NewSlogLogger(handler, logiface.WithLevel[*islog.Event](logiface.LevelInformational))

	logger.Debug().Log("should not appear")
	require.Equal(t, 0, buf.Len())

	logger.Info().Log("should appear")
	require.Greater(t, buf.Len(), 0)
}
