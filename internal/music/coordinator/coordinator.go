// Package coordinator is the per-guild playback state machine. It decides
// whether an incoming track starts playback or queues, advances the queue
// when a track ends, re-resolves stale metadata before replay, and runs the
// cooperative skip-vote protocol. It talks to the actual voice transport and
// permission system only through interfaces.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/pyraxo/haru/internal/music/queue"
	"github.com/pyraxo/haru/internal/music/resolver"
	"github.com/pyraxo/haru/internal/music/session"
	"github.com/pyraxo/haru/internal/storage"
)

const (
	// maxTrackDuration is the admission cutoff, in seconds.
	maxTrackDuration = 5400
)

var (
	ErrInvalidChannel = errors.New("a voice channel and a guild text channel are required")
	ErrAlreadyBound   = errors.New("already bound to a different voice channel")
	ErrNoPermission   = errors.New("missing connect or speak permission for the voice channel")
	ErrConnection     = errors.New("voice connection failed")
	ErrInvalidURL     = errors.New("invalid track reference")
	ErrTooLong        = errors.New("track exceeds the maximum duration")
	ErrNoSongs        = errors.New("no tracks in queue")
)

// Voice is the external player/transport backend.
type Voice interface {
	Connect(guildID, channelID string) error
	Disconnect(guildID string) error
	Play(guildID, channelID string, meta *resolver.StreamMetadata, volume float64) error
	Stop(guildID string, immediate bool) error
	Skip(guildID, channelID string) error
	IsPlaying(guildID string) bool
	ChannelMembers(guildID, channelID string) ([]string, error)
	BotUserID() string
}

// Permissions checks whether the bot can join and speak in a channel.
type Permissions interface {
	CanConnectAndSpeak(guildID, channelID string) bool
}

// ConnectRequest carries everything the connect transition validates.
type ConnectRequest struct {
	GuildID        string
	VoiceChannelID string
	TextChannelID  string
}

type Coordinator struct {
	sessions *session.Registry
	resolver *resolver.Resolver
	voice    Voice
	perms    Permissions
	store    *storage.Storage

	mu          sync.Mutex
	transitions map[string]*sync.Mutex
}

func New(sessions *session.Registry, res *resolver.Resolver, voice Voice, perms Permissions, store *storage.Storage) *Coordinator {
	return &Coordinator{
		sessions:    sessions,
		resolver:    res,
		voice:       voice,
		perms:       perms,
		store:       store,
		transitions: make(map[string]*sync.Mutex),
	}
}

// transition returns the lock serializing state transitions for one guild.
// Sessions are independent; transitions for different guilds never contend.
func (c *Coordinator) transition(guildID string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()

	mu, ok := c.transitions[guildID]
	if !ok {
		mu = &sync.Mutex{}
		c.transitions[guildID] = mu
	}
	return mu
}

// session returns the guild's session, seeding the volume from storage on
// first use.
func (c *Coordinator) session(guildID string) *session.Session {
	if s, ok := c.sessions.Get(guildID); ok {
		return s
	}
	s := c.sessions.GetOrCreate(guildID)
	if c.store != nil {
		if v, ok := c.store.GetVolume(guildID); ok {
			s.SetVolume(v)
		}
	}
	return s
}

// Connect binds a guild to a voice channel and establishes the transport
// connection. Validation order matters: channel sanity, binding, capability,
// then the external call.
func (c *Coordinator) Connect(req ConnectRequest) error {
	if req.GuildID == "" || req.VoiceChannelID == "" || req.TextChannelID == "" {
		return ErrInvalidChannel
	}

	s := c.session(req.GuildID)
	if bound := s.BoundChannel(); bound != "" && bound != req.VoiceChannelID {
		return ErrAlreadyBound
	}

	if c.perms != nil && !c.perms.CanConnectAndSpeak(req.GuildID, req.VoiceChannelID) {
		return ErrNoPermission
	}

	if err := c.voice.Connect(req.GuildID, req.VoiceChannelID); err != nil {
		log.Printf("[Coordinator] Voice connect failed | guild=%s channel=%s err=%v",
			req.GuildID, req.VoiceChannelID, err)
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}

	s.Bind(req.VoiceChannelID)
	return nil
}

// BindChannel records a channel binding without connecting. Rebinding the
// same channel is a no-op; a different channel while bound is rejected.
func (c *Coordinator) BindChannel(guildID, channelID string) error {
	s := c.session(guildID)
	if bound := s.BoundChannel(); bound != "" && bound != channelID {
		return ErrAlreadyBound
	}
	s.Bind(channelID)
	return nil
}

func (c *Coordinator) UnbindChannel(guildID string) {
	c.sessions.Unbind(guildID)
}

func (c *Coordinator) BoundChannel(guildID string) string {
	return c.sessions.BoundChannel(guildID)
}

// Add admits a user-submitted reference: cleans it, resolves it, enforces the
// duration cap, then either starts playback (idle session) or appends to the
// queue (playing session). Returns the resolved metadata and whether playback
// started now.
func (c *Coordinator) Add(ctx context.Context, guildID, raw, requestedBy string) (*resolver.StreamMetadata, bool, error) {
	cleaned := stripBrackets(strings.TrimSpace(raw))
	if cleaned == "" {
		return nil, false, ErrInvalidURL
	}

	// Resolution happens before the transition lock; it is admission-phase
	// I/O and must not stall other transitions for this guild.
	meta, err := c.resolver.Resolve(ctx, cleaned)
	if err != nil {
		return nil, false, err
	}
	if meta.Duration > maxTrackDuration {
		return nil, false, ErrTooLong
	}

	mu := c.transition(guildID)
	mu.Lock()
	defer mu.Unlock()

	s := c.session(guildID)
	item := queue.Item{URL: meta.URL, Meta: meta, RequestedBy: requestedBy}

	if s.Playing() {
		s.Queue().Add(item, false)
		log.Printf("[Coordinator] Queued %q | guild=%s queue=%d", meta.Title, guildID, s.Queue().Len())
		return meta, false, nil
	}

	s.Queue().Add(item, true)
	if err := c.play(ctx, guildID, meta); err != nil {
		return meta, false, err
	}
	return meta, true, nil
}

// Play pops the next queue item and starts it. With explicit metadata the
// re-resolution step is skipped.
func (c *Coordinator) Play(ctx context.Context, guildID string, meta *resolver.StreamMetadata) error {
	mu := c.transition(guildID)
	mu.Lock()
	defer mu.Unlock()
	return c.play(ctx, guildID, meta)
}

// play runs the Idle->Playing transition. Caller holds the transition lock.
func (c *Coordinator) play(ctx context.Context, guildID string, meta *resolver.StreamMetadata) error {
	s := c.session(guildID)
	channelID := s.BoundChannel()

	// Alone in the voice channel: stop instead of playing to an empty room.
	if members, err := c.voice.ChannelMembers(guildID, channelID); err == nil &&
		len(members) == 1 && members[0] == c.voice.BotUserID() {
		log.Printf("[Coordinator] Alone in channel, stopping | guild=%s", guildID)
		return c.stop(guildID)
	}

	for {
		item, err := s.Queue().Shift()
		if err != nil {
			return ErrNoSongs
		}

		play := meta
		if play == nil && item.Meta != nil && item.Meta.AudioURL != "" && !item.Meta.Expired() {
			play = item.Meta
		}
		if play == nil {
			ref := item.URL
			if item.Meta != nil && item.Meta.URL != "" {
				ref = item.Meta.URL
			}
			resolved, rerr := c.resolver.Resolve(ctx, ref)
			if rerr != nil {
				return rerr
			}
			if resolved == nil || resolved.AudioURL == "" {
				// Dead item: drop the queue and retry, which terminates
				// with ErrNoSongs on the next pass.
				log.Printf("[Coordinator] Unusable metadata for %q, clearing queue | guild=%s", ref, guildID)
				s.Queue().Clear()
				meta = nil
				continue
			}
			play = resolved
		}

		// The session may have been unbound while we resolved.
		if s.BoundChannel() == "" {
			log.Printf("[Coordinator] Session unbound mid-resolution, discarding | guild=%s", guildID)
			return nil
		}

		// Never more than one active stream per session.
		if c.voice.IsPlaying(guildID) {
			_ = c.voice.Stop(guildID, true)
		}

		if perr := c.voice.Play(guildID, channelID, play, s.Volume()); perr != nil {
			s.SetPlaying(false)
			return perr
		}

		s.SetPlaying(true)
		s.ClearVotes()
		c.recordHistory(guildID, play, item.RequestedBy)
		log.Printf("[Coordinator] Now playing %q | guild=%s queue=%d", play.Title, guildID, s.Queue().Len())
		return nil
	}
}

// Stop halts playback and clears all pending state for the guild.
func (c *Coordinator) Stop(guildID string) error {
	mu := c.transition(guildID)
	mu.Lock()
	defer mu.Unlock()
	return c.stop(guildID)
}

func (c *Coordinator) stop(guildID string) error {
	s := c.session(guildID)
	_ = c.voice.Stop(guildID, true)
	s.Queue().Clear()
	s.SetPlaying(false)
	s.ClearVotes()
	return nil
}

// Leave stops playback, disconnects the transport and destroys the session.
func (c *Coordinator) Leave(guildID string) {
	mu := c.transition(guildID)
	mu.Lock()
	defer mu.Unlock()

	_ = c.stop(guildID)
	_ = c.voice.Disconnect(guildID)
	c.sessions.Unbind(guildID)
	c.sessions.Remove(guildID)
}

// SetVolume stores the guild's volume scalar, applied on the next play.
func (c *Coordinator) SetVolume(guildID string, percent int) {
	v := float64(percent) * 2 / 100
	c.session(guildID).SetVolume(v)
	if c.store != nil {
		if err := c.store.SetVolume(guildID, v); err != nil {
			log.Printf("[WARN] Failed to persist volume | guild=%s err=%v", guildID, err)
		}
	}
}

func (c *Coordinator) Volume(guildID string) float64 {
	return c.session(guildID).Volume()
}

// QueueItems returns a copy of the guild's pending queue.
func (c *Coordinator) QueueItems(guildID string) []queue.Item {
	return c.session(guildID).Queue().Items()
}

// OnTrackEnd is the re-entry point for playback-completion notifications
// from the external player. It advances the queue, if anything is left.
func (c *Coordinator) OnTrackEnd(guildID string) {
	mu := c.transition(guildID)
	mu.Lock()
	defer mu.Unlock()

	s := c.session(guildID)
	s.SetPlaying(false)
	s.ClearVotes()

	if s.Queue().Len() == 0 {
		log.Printf("[Coordinator] Queue drained, going idle | guild=%s", guildID)
		return
	}

	if err := c.play(context.Background(), guildID, nil); err != nil && !errors.Is(err, ErrNoSongs) {
		log.Printf("[ERR] Auto-advance failed | guild=%s err=%v", guildID, err)
	}
}

func (c *Coordinator) recordHistory(guildID string, meta *resolver.StreamMetadata, requestedBy string) {
	if c.store == nil {
		return
	}
	err := c.store.AppendTrackToHistory(guildID, storage.TrackHistoryRecord{
		Title:       meta.Title,
		URL:         meta.URL,
		RequestedBy: requestedBy,
		PlayedAt:    time.Now(),
	})
	if err != nil {
		log.Printf("[WARN] Failed to record track history | guild=%s err=%v", guildID, err)
	}
}

// stripBrackets removes the angle brackets Discord users wrap URLs in to
// suppress embeds.
func stripBrackets(s string) string {
	return strings.NewReplacer("<", "", ">", "").Replace(s)
}
