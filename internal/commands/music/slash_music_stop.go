package music

import (
	"github.com/pyraxo/haru/internal/core"

	"github.com/bwmarrin/discordgo"
)

type StopCommand struct {
	Bot core.MusicProvider
}

func (c *StopCommand) Name() string        { return "stop" }
func (c *StopCommand) Description() string { return "Stop playback and clear the queue" }
func (c *StopCommand) Aliases() []string   { return []string{} }
func (c *StopCommand) Group() string       { return "music" }
func (c *StopCommand) Category() string    { return "🎵 Music" }
func (c *StopCommand) RequireAdmin() bool  { return false }

func (c *StopCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

func (c *StopCommand) Run(ctx interface{}) error {
	context_, ok := ctx.(*core.SlashInteractionContext)
	if !ok {
		return nil
	}

	if err := c.Bot.Music().Stop(context_.Event.GuildID); err != nil {
		return respond(context_.Session, context_.Event, userMessage(err))
	}
	return respond(context_.Session, context_.Event, "⏹ Playback stopped, queue cleared.")
}
