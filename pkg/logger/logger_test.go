package logger

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"trace":   LevelTrace,
		"debug":   LevelDebug,
		"info":    LevelInfo,
		"":        LevelInfo,
		"WARN":    LevelWarn,
		"warning": LevelWarn,
		" error ": LevelError,
	}
	for raw, want := range cases {
		got, err := ParseLevel(raw)
		require.NoError(t, err, "level %q", raw)
		require.Equal(t, want, got, "level %q", raw)
	}

	_, err := ParseLevel("loud")
	require.Error(t, err)
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetFlags(0)
	defer func() {
		SetOutput(os.Stderr)
		SetFlags(log.LstdFlags)
		SetLevel(LevelInfo)
	}()

	SetLevel(LevelWarn)
	Debugf("hidden %d", 1)
	Infof("hidden %d", 2)
	Warnf("shown %d", 3)
	Errorf("shown %d", 4)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, "WARN shown 3", lines[0])
	require.Equal(t, "ERROR shown 4", lines[1])

	require.False(t, Enabled(LevelDebug))
	require.True(t, Enabled(LevelError))
}
