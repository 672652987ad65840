package music

import (
	"github.com/pyraxo/haru/internal/core"
	"github.com/pyraxo/haru/internal/music/coordinator"

	"github.com/bwmarrin/discordgo"
)

type JoinCommand struct {
	Bot core.MusicProvider
}

func (c *JoinCommand) Name() string        { return "join" }
func (c *JoinCommand) Description() string { return "Join your voice channel" }
func (c *JoinCommand) Aliases() []string   { return []string{} }
func (c *JoinCommand) Group() string       { return "music" }
func (c *JoinCommand) Category() string    { return "🎵 Music" }
func (c *JoinCommand) RequireAdmin() bool  { return false }

func (c *JoinCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

func (c *JoinCommand) Run(ctx interface{}) error {
	context_, ok := ctx.(*core.SlashInteractionContext)
	if !ok {
		return nil
	}

	session := context_.Session
	event := context_.Event

	voiceState, err := c.Bot.FindUserVoiceState(event.GuildID, event.Member.User.ID)
	if err != nil {
		return respond(session, event, "🎵 You need to be in a voice channel first.")
	}

	if err := c.Bot.Music().Connect(coordinator.ConnectRequest{
		GuildID:        event.GuildID,
		VoiceChannelID: voiceState.ChannelID,
		TextChannelID:  event.ChannelID,
	}); err != nil {
		return respond(session, event, userMessage(err))
	}
	return respond(session, event, "🎵 Joined your voice channel.")
}
