package music

import (
	"github.com/pyraxo/haru/internal/core"

	"github.com/bwmarrin/discordgo"
)

type LeaveCommand struct {
	Bot core.MusicProvider
}

func (c *LeaveCommand) Name() string        { return "leave" }
func (c *LeaveCommand) Description() string { return "Leave the voice channel and forget the session" }
func (c *LeaveCommand) Aliases() []string   { return []string{} }
func (c *LeaveCommand) Group() string       { return "music" }
func (c *LeaveCommand) Category() string    { return "🎵 Music" }
func (c *LeaveCommand) RequireAdmin() bool  { return false }

func (c *LeaveCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

func (c *LeaveCommand) Run(ctx interface{}) error {
	context_, ok := ctx.(*core.SlashInteractionContext)
	if !ok {
		return nil
	}

	c.Bot.Music().Leave(context_.Event.GuildID)
	return respond(context_.Session, context_.Event, "👋 Left the voice channel.")
}
