package core

import "github.com/pyraxo/haru/internal/music/coordinator"

// MusicProvider is the interface the Discord bot provides for voice/music.
type MusicProvider interface {
	Music() *coordinator.Coordinator
	FindUserVoiceState(guildID, userID string) (*VoiceState, error)
}

// VoiceState holds minimal voice channel state for a user.
type VoiceState struct {
	ChannelID string
	UserID    string
}
