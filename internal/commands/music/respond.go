package music

import (
	"errors"
	"fmt"

	"github.com/pyraxo/haru/internal/music/coordinator"
	"github.com/pyraxo/haru/internal/music/resolver"

	"github.com/bwmarrin/discordgo"
)

func deferResponse(session *discordgo.Session, event *discordgo.InteractionCreate) error {
	return session.InteractionRespond(event.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
}

func followUp(session *discordgo.Session, event *discordgo.InteractionCreate, content string) {
	_, _ = session.FollowupMessageCreate(event.Interaction, true, &discordgo.WebhookParams{
		Content: content,
	})
}

func respond(session *discordgo.Session, event *discordgo.InteractionCreate, content string) error {
	return session.InteractionRespond(event.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content},
	})
}

// userMessage maps a coordinator or resolver error to the message shown to
// the requesting user.
func userMessage(err error) string {
	switch {
	case errors.Is(err, coordinator.ErrInvalidChannel):
		return "🎵 You need to be in a voice channel of this server."
	case errors.Is(err, coordinator.ErrAlreadyBound):
		return "🎵 I'm already playing in another voice channel."
	case errors.Is(err, coordinator.ErrNoPermission):
		return "🎵 I can't connect or speak in that voice channel."
	case errors.Is(err, coordinator.ErrConnection):
		return "🎵 Couldn't connect to the voice channel, try again."
	case errors.Is(err, coordinator.ErrInvalidURL):
		return "🎵 That doesn't look like a playable link."
	case errors.Is(err, coordinator.ErrTooLong):
		return "🎵 That track is too long (90 minutes max)."
	case errors.Is(err, coordinator.ErrNoSongs):
		return "🎵 The queue is empty."
	case errors.Is(err, coordinator.ErrAlreadyVoted):
		return "🎵 You already voted to skip this track."
	case errors.Is(err, resolver.ErrNoMediaFound):
		return "🎵 No media found for that link."
	case errors.Is(err, resolver.ErrNoPlayableAudio):
		return "🎵 No playable audio stream found for that link."
	case errors.Is(err, resolver.ErrResolutionFailed):
		return "🎵 Couldn't resolve that link, try again later."
	default:
		return fmt.Sprintf("🎵 Error: %v", err)
	}
}
