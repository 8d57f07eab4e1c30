package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTimerLifecycle(t *testing.T) {
	t.Parallel()

	var tm timer
	now := time.Unix(1000, 0)

	require.False(t, tm.Armed())
	require.False(t, tm.Active(now))
	require.False(t, tm.Expired(now))

	tm.Arm(now, time.Second)
	require.True(t, tm.Armed())
	require.True(t, tm.Active(now))
	require.False(t, tm.Expired(now))

	// Boundary: the deadline itself counts as fired.
	at := now.Add(time.Second)
	require.False(t, tm.Active(at))
	require.True(t, tm.Expired(at))
	require.True(t, tm.Armed(), "firing does not disarm")

	tm.Clear()
	require.False(t, tm.Armed())
	require.False(t, tm.Expired(at))

	// Re-arming pushes the deadline forward.
	tm.Arm(at, time.Second)
	require.True(t, tm.Active(at.Add(999*time.Millisecond)))
	require.True(t, tm.Expired(at.Add(time.Second)))
}
