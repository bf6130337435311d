package prof

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTrackAndReset(t *testing.T) {
	SnapshotAndReset()
	Track(time.Now().Add(-time.Millisecond), "a")
	Track(time.Now(), "b")

	got := SnapshotAndReset()
	require.Len(t, got, 2)
	require.Equal(t, "a", got[0].Label)
	require.GreaterOrEqual(t, got[0].Dur, time.Millisecond)
	require.Empty(t, SnapshotAndReset())
}

func TestSetEnabled(t *testing.T) {
	SnapshotAndReset()
	SetEnabled(false)
	Track(time.Now(), "off")
	SetEnabled(true)
	require.Empty(t, SnapshotAndReset())
}

func TestSummarize(t *testing.T) {
	stats := Summarize([]Entry{
		{Label: "commit", Dur: 3 * time.Millisecond},
		{Label: "open", Dur: time.Millisecond},
		{Label: "commit", Dur: 5 * time.Millisecond},
	})
	require.Len(t, stats, 2)
	require.Equal(t, Stat{Label: "commit", Count: 2, Total: 8 * time.Millisecond, Max: 5 * time.Millisecond}, stats[0])
	require.Equal(t, 4*time.Millisecond, stats[0].Mean())
	require.Equal(t, "open", stats[1].Label)
	require.Zero(t, Stat{}.Mean())
}
