package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLevel_String(t *testing.T) {
	require.Equal(t, "DEBUG", LevelDebug.String())
	require.Equal(t, "WARN", LevelWarn.String())
	require.Equal(t, "UNKNOWN", Level(42).String())
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{
		"":        LevelInfo,
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"warning": LevelWarn,
		" error ": LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
	_, err := ParseLevel("loud")
	require.Error(t, err)
}

func TestLogger_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelWarn, Output: &buf})

	logger.Info("hidden")
	logger.Warn("shown", "k", 1)

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "shown")
	require.Contains(t, out, "k=1")
}

func TestLogger_JSONWithServiceAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Output: &buf, JSON: true, Service: "spade"}).With("run_id", "r1")

	logger.Info("done", "patterns", 3)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &rec))
	require.Equal(t, "spade", rec["service"])
	require.Equal(t, "r1", rec["run_id"])
	require.Equal(t, "done", rec["msg"])
	require.EqualValues(t, 3, rec["patterns"])
}

func TestNop(t *testing.T) {
	logger := Nop()
	logger.Error("nothing happens")
	require.NotNil(t, logger.Slog())
}
