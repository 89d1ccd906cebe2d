package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitAndGet(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var buf bytes.Buffer
	Init(Options{Level: "debug", Output: &buf})

	// Get must support chaining directly off the call.
	Get().Info().Str("component", "logger").Msg("hello")

	out := buf.String()
	require.Contains(t, out, `"component":"logger"`)
	require.Contains(t, out, "hello")
}

func TestGet_BeforeInit(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	// Must not panic and must hand back a usable logger.
	Get().Debug().Msg("early")
}

func TestInit_OnlyFirstCallWins(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var first, second bytes.Buffer
	Init(Options{Output: &first})
	Init(Options{Output: &second})

	Get().Info().Msg("routed")
	require.Contains(t, first.String(), "routed")
	require.Empty(t, second.String())
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, "debug", parseLevel("debug").String())
	require.Equal(t, "warn", parseLevel("WARNING").String())
	require.Equal(t, "error", parseLevel(" error ").String())
	require.Equal(t, "info", parseLevel("unknown").String())
}
