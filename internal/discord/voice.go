package discord

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/pyraxo/haru/internal/discord/stream"
	"github.com/pyraxo/haru/internal/music/resolver"

	"github.com/bwmarrin/discordgo"
)

// guildVoice tracks one guild's voice connection and playback goroutine.
type guildVoice struct {
	vc       *discordgo.VoiceConnection
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	playing  bool
	// advance controls whether the playback goroutine reports track end
	// upstream. Stop clears it; natural end and Skip leave it set.
	advance bool
}

// VoiceBackend implements the coordinator's Voice interface on discordgo.
type VoiceBackend struct {
	dg *discordgo.Session

	mu     sync.Mutex
	guilds map[string]*guildVoice

	onTrackEnd func(guildID string)
}

func NewVoiceBackend(dg *discordgo.Session) *VoiceBackend {
	return &VoiceBackend{
		dg:     dg,
		guilds: make(map[string]*guildVoice),
	}
}

// SetTrackEndHandler wires the playback-completion callback. Must be called
// before the first Play.
func (v *VoiceBackend) SetTrackEndHandler(fn func(guildID string)) {
	v.onTrackEnd = fn
}

func (v *VoiceBackend) Connect(guildID, channelID string) error {
	v.mu.Lock()
	gv := v.guilds[guildID]
	if gv != nil && gv.vc != nil && gv.vc.ChannelID == channelID {
		v.mu.Unlock()
		return nil // reuse
	}
	v.mu.Unlock()

	vc, err := v.dg.ChannelVoiceJoin(guildID, channelID, false, true)
	if err != nil {
		return fmt.Errorf("failed to join voice channel: %w", err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if gv == nil {
		gv = &guildVoice{}
		v.guilds[guildID] = gv
	}
	gv.vc = vc
	log.Printf("[Voice] Joined channel %s on guild %s", channelID, guildID)
	return nil
}

func (v *VoiceBackend) Disconnect(guildID string) error {
	_ = v.Stop(guildID, true)

	v.mu.Lock()
	gv := v.guilds[guildID]
	delete(v.guilds, guildID)
	v.mu.Unlock()

	if gv != nil && gv.vc != nil {
		return gv.vc.Disconnect()
	}
	return nil
}

// Play starts streaming a resolved track. Any active stream for the guild is
// stopped first; at most one stream runs per guild.
func (v *VoiceBackend) Play(guildID, channelID string, meta *resolver.StreamMetadata, volume float64) error {
	_ = v.Stop(guildID, true)

	v.mu.Lock()
	gv := v.guilds[guildID]
	v.mu.Unlock()

	if gv == nil || gv.vc == nil {
		return errors.New("not connected to a voice channel")
	}

	rc, cleanup, err := stream.OpenAudioStream(meta, volume)
	if err != nil {
		return fmt.Errorf("failed to open audio stream: %w", err)
	}

	v.mu.Lock()
	gv.stop = make(chan struct{})
	gv.done = make(chan struct{})
	gv.stopOnce = sync.Once{}
	gv.playing = true
	gv.advance = true
	v.mu.Unlock()

	log.Printf("[Voice] Streaming %q | guild=%s channel=%s", meta.Title, guildID, channelID)
	go v.run(guildID, gv, rc, cleanup)
	return nil
}

// run is the playback goroutine.
func (v *VoiceBackend) run(guildID string, gv *guildVoice, rc io.ReadCloser, cleanup func()) {
	err := stream.StreamToDiscord(rc, gv.stop, gv.vc)
	cleanup()

	v.mu.Lock()
	gv.playing = false
	advance := gv.advance
	v.mu.Unlock()
	close(gv.done)

	if err != nil {
		log.Printf("[ERR] Playback error | guild=%s err=%v", guildID, err)
	}

	if advance && v.onTrackEnd != nil {
		v.onTrackEnd(guildID)
	}
}

// Stop halts the active stream without advancing the queue, and waits for
// the playback goroutine to finish.
func (v *VoiceBackend) Stop(guildID string, immediate bool) error {
	v.mu.Lock()
	gv := v.guilds[guildID]
	if gv == nil || !gv.playing {
		v.mu.Unlock()
		return nil
	}
	gv.advance = false
	gv.stopOnce.Do(func() { close(gv.stop) })
	done := gv.done
	v.mu.Unlock()

	if immediate {
		<-done
	}
	return nil
}

// Skip halts the active stream and lets the completion callback advance the
// queue. Does not wait; the caller may hold locks the callback needs.
func (v *VoiceBackend) Skip(guildID, channelID string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	gv := v.guilds[guildID]
	if gv == nil || !gv.playing {
		return nil
	}
	gv.stopOnce.Do(func() { close(gv.stop) })
	return nil
}

func (v *VoiceBackend) IsPlaying(guildID string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	gv := v.guilds[guildID]
	return gv != nil && gv.playing
}

// ChannelMembers returns the user ids currently in a voice channel.
func (v *VoiceBackend) ChannelMembers(guildID, channelID string) ([]string, error) {
	if channelID == "" {
		return nil, errors.New("no channel bound")
	}

	guild, err := v.dg.State.Guild(guildID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving guild: %w", err)
	}

	var members []string
	for _, vs := range guild.VoiceStates {
		if vs.ChannelID == channelID {
			members = append(members, vs.UserID)
		}
	}
	return members, nil
}

func (v *VoiceBackend) BotUserID() string {
	if v.dg.State != nil && v.dg.State.User != nil {
		return v.dg.State.User.ID
	}
	return ""
}
