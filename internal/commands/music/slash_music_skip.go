package music

import (
	"github.com/pyraxo/haru/internal/core"
	"github.com/pyraxo/haru/internal/music/coordinator"

	"github.com/bwmarrin/discordgo"
)

type SkipCommand struct {
	Bot core.MusicProvider
}

func (c *SkipCommand) Name() string        { return "skip" }
func (c *SkipCommand) Description() string { return "Vote to skip the current track" }
func (c *SkipCommand) Aliases() []string   { return []string{} }
func (c *SkipCommand) Group() string       { return "music" }
func (c *SkipCommand) Category() string    { return "🎵 Music" }
func (c *SkipCommand) RequireAdmin() bool  { return false }

func (c *SkipCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionBoolean,
				Name:        "force",
				Description: "Skip without a vote (requires manage channels)",
				Required:    false,
			},
		},
	}
}

func (c *SkipCommand) Run(ctx interface{}) error {
	context_, ok := ctx.(*core.SlashInteractionContext)
	if !ok {
		return nil
	}

	session := context_.Session
	event := context_.Event
	member := event.Member

	var force bool
	for _, opt := range event.ApplicationCommandData().Options {
		if opt.Name == "force" {
			force = opt.BoolValue()
		}
	}

	// Forcing is a privileged action.
	if force && member.Permissions&discordgo.PermissionManageChannels == 0 {
		force = false
	}

	outcome, err := c.Bot.Music().Skip(event.GuildID, member.User.ID, force)
	if err != nil {
		return respond(session, event, userMessage(err))
	}

	switch outcome {
	case coordinator.SkipExecuted:
		return respond(session, event, "⏭ Skipped.")
	case coordinator.SkipVoteRecorded:
		return respond(session, event, "🗳 Skip vote recorded.")
	default:
		return respond(session, event, "🎵 Nothing to skip to.")
	}
}
