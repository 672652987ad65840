// /internal/storage/storage_test.go
package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "datastore.json"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestTrackHistoryAppendAndFetch(t *testing.T) {
	s := newTestStorage(t)

	err := s.AppendTrackToHistory("guild-1", TrackHistoryRecord{
		Title:       "First",
		URL:         "https://www.youtube.com/watch?v=a",
		RequestedBy: "u1",
		PlayedAt:    time.Now(),
	})
	require.NoError(t, err)

	history, err := s.FetchTrackHistory("guild-1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "First", history[0].Title)

	// Another guild's history is independent.
	other, err := s.FetchTrackHistory("guild-2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestTrackHistoryTrimsToLimit(t *testing.T) {
	s := newTestStorage(t)

	for i := 0; i < tracksHistoryLimit+5; i++ {
		err := s.AppendTrackToHistory("guild-1", TrackHistoryRecord{
			Title: string(rune('a' + i)),
		})
		require.NoError(t, err)
	}

	history, err := s.FetchTrackHistory("guild-1")
	require.NoError(t, err)
	require.Len(t, history, tracksHistoryLimit)

	// Oldest entries fall off, the most recent survives.
	assert.Equal(t, string(rune('a'+tracksHistoryLimit+4)), history[len(history)-1].Title)
}

func TestVolumeRoundTrip(t *testing.T) {
	s := newTestStorage(t)

	_, ok := s.GetVolume("guild-1")
	assert.False(t, ok)

	require.NoError(t, s.SetVolume("guild-1", 1.5))

	v, ok := s.GetVolume("guild-1")
	require.True(t, ok)
	assert.Equal(t, 1.5, v)

	// Unset guilds stay unset.
	_, ok = s.GetVolume("guild-2")
	assert.False(t, ok)
}

func TestCommandHistoryAppend(t *testing.T) {
	s := newTestStorage(t)

	err := s.AppendCommandToHistory("guild-1", CommandHistoryRecord{
		ChannelID: "chan-1",
		UserID:    "u1",
		Username:  "tester",
		Command:   "play",
		Datetime:  time.Now(),
	})
	require.NoError(t, err)

	record, err := s.getOrCreateGuildRecord("guild-1")
	require.NoError(t, err)
	require.Len(t, record.CommandsHistoryList, 1)
	assert.Equal(t, "play", record.CommandsHistoryList[0].Command)
}
