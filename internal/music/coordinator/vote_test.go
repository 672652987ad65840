package coordinator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyraxo/haru/internal/music/resolver"
)

// startPlayingWithQueue puts the coordinator in a playing state with one
// pending track, so a skip has something to advance to.
func startPlayingWithQueue(t *testing.T, c *Coordinator, voice *fakeVoice) {
	t.Helper()
	fetcher := &stubFetcher{infos: map[string]*resolver.RawInfo{
		"song-a": trackInfo("song-a", 180),
		"song-b": trackInfo("song-b", 180),
	}}
	c.resolver = resolver.New(fetcher, nil)

	require.NoError(t, c.BindChannel("g", "v"))
	_, started, err := c.Add(context.Background(), "g", "song-a", "u1")
	require.NoError(t, err)
	require.True(t, started)
	_, _, err = c.Add(context.Background(), "g", "song-b", "u2")
	require.NoError(t, err)
}

func TestSkipNothingWhenIdle(t *testing.T) {
	voice := &fakeVoice{members: []string{botID, "u1"}}
	c := newTestCoordinator(voice, &stubFetcher{}, nil)

	outcome, err := c.Skip("g", "u1", false)
	require.NoError(t, err)
	assert.Equal(t, SkipNothing, outcome)
	assert.Equal(t, 0, voice.skipCalls)
}

func TestSkipNothingWhenQueueEmpty(t *testing.T) {
	voice := &fakeVoice{members: []string{botID, "u1"}}
	fetcher := &stubFetcher{infos: map[string]*resolver.RawInfo{"song-a": trackInfo("song-a", 180)}}
	c := newTestCoordinator(voice, fetcher, nil)
	require.NoError(t, c.BindChannel("g", "v"))

	// Playing the only track; nothing is left to skip to.
	_, started, err := c.Add(context.Background(), "g", "song-a", "u1")
	require.NoError(t, err)
	require.True(t, started)

	outcome, err := c.Skip("g", "u1", false)
	require.NoError(t, err)
	assert.Equal(t, SkipNothing, outcome)
}

func TestSkipVoteBelowQuorum(t *testing.T) {
	voice := &fakeVoice{members: []string{botID, "u1", "u2", "u3", "u4"}}
	c := newTestCoordinator(voice, &stubFetcher{}, nil)
	startPlayingWithQueue(t, c, voice)

	// 1/5 and 2/5 are below the majority threshold.
	outcome, err := c.Skip("g", "u1", false)
	require.NoError(t, err)
	assert.Equal(t, SkipVoteRecorded, outcome)

	outcome, err = c.Skip("g", "u2", false)
	require.NoError(t, err)
	assert.Equal(t, SkipVoteRecorded, outcome)
	assert.Equal(t, 0, voice.skipCalls)
}

func TestSkipVoteReachesQuorum(t *testing.T) {
	voice := &fakeVoice{members: []string{botID, "u1", "u2", "u3", "u4"}}
	c := newTestCoordinator(voice, &stubFetcher{}, nil)
	startPlayingWithQueue(t, c, voice)

	_, err := c.Skip("g", "u1", false)
	require.NoError(t, err)
	_, err = c.Skip("g", "u2", false)
	require.NoError(t, err)

	// 3/5 >= 0.5: the skip fires and the vote set is reset.
	outcome, err := c.Skip("g", "u3", false)
	require.NoError(t, err)
	assert.Equal(t, SkipExecuted, outcome)
	assert.Equal(t, 1, voice.skipCalls)
	assert.Equal(t, 0, c.session("g").VoteCount())
}

func TestSkipRepeatVoteRejected(t *testing.T) {
	voice := &fakeVoice{members: []string{botID, "u1", "u2", "u3", "u4"}}
	c := newTestCoordinator(voice, &stubFetcher{}, nil)
	startPlayingWithQueue(t, c, voice)

	_, err := c.Skip("g", "u1", false)
	require.NoError(t, err)

	outcome, err := c.Skip("g", "u1", false)
	assert.ErrorIs(t, err, ErrAlreadyVoted)
	assert.Equal(t, SkipNothing, outcome)
	assert.Equal(t, 1, c.session("g").VoteCount())
}

func TestSkipSmallChannelBypassesVote(t *testing.T) {
	voice := &fakeVoice{members: []string{botID, "u1"}}
	c := newTestCoordinator(voice, &stubFetcher{}, nil)
	startPlayingWithQueue(t, c, voice)

	outcome, err := c.Skip("g", "u1", false)
	require.NoError(t, err)
	assert.Equal(t, SkipExecuted, outcome)
	assert.Equal(t, 1, voice.skipCalls)
}

func TestSkipForceBypassesVote(t *testing.T) {
	voice := &fakeVoice{members: []string{botID, "u1", "u2", "u3", "u4"}}
	c := newTestCoordinator(voice, &stubFetcher{}, nil)
	startPlayingWithQueue(t, c, voice)

	outcome, err := c.Skip("g", "u1", true)
	require.NoError(t, err)
	assert.Equal(t, SkipExecuted, outcome)
	assert.Equal(t, 1, voice.skipCalls)
	assert.Equal(t, 0, c.session("g").VoteCount())
}
