// Package session owns per-guild playback state: the bound voice channel,
// the pending queue, the volume scalar, the skip-vote set and the playing
// flag. One Session per guild, all fields behind one mutex.
package session

import (
	"sync"

	"github.com/pyraxo/haru/internal/music/queue"
)

// DefaultVolume is the scalar applied when a guild never set a volume
// (equivalent to a 50% setting).
const DefaultVolume = 1.0

type Session struct {
	GuildID string

	mu           sync.Mutex
	boundChannel string
	queue        *queue.Queue
	volume       float64
	votes        map[string]struct{}
	playing      bool
}

func newSession(guildID string) *Session {
	return &Session{
		GuildID: guildID,
		queue:   queue.New(),
		volume:  DefaultVolume,
		votes:   make(map[string]struct{}),
	}
}

// Queue returns the session's queue. The queue is owned by the session for
// its whole lifetime, so handing out the pointer is safe.
func (s *Session) Queue() *queue.Queue {
	return s.queue
}

// Bind sets the bound output channel. Idempotent set; the coordinator is
// responsible for rejecting rebinds to a different channel.
func (s *Session) Bind(channelID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.boundChannel = channelID
}

func (s *Session) Unbind() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.boundChannel = ""
}

// BoundChannel returns the bound channel id, or "" when unbound.
func (s *Session) BoundChannel() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.boundChannel
}

func (s *Session) Volume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}

func (s *Session) SetVolume(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.volume = v
}

func (s *Session) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

func (s *Session) SetPlaying(playing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playing = playing
}

// AddVote records a skip vote. Returns the vote count and whether the voter
// had already voted (repeat voters are not double-counted).
func (s *Session) AddVote(userID string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.votes[userID]; ok {
		return len(s.votes), true
	}
	s.votes[userID] = struct{}{}
	return len(s.votes), false
}

func (s *Session) VoteCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.votes)
}

// ClearVotes resets the vote set to empty.
func (s *Session) ClearVotes() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.votes = make(map[string]struct{})
}
