package music

import (
	"fmt"
	"strings"

	"github.com/pyraxo/haru/internal/core"

	"github.com/bwmarrin/discordgo"
)

type QueueCommand struct {
	Bot core.MusicProvider
}

func (c *QueueCommand) Name() string        { return "queue" }
func (c *QueueCommand) Description() string { return "Show pending tracks and recent history" }
func (c *QueueCommand) Aliases() []string   { return []string{} }
func (c *QueueCommand) Group() string       { return "music" }
func (c *QueueCommand) Category() string    { return "🎵 Music" }
func (c *QueueCommand) RequireAdmin() bool  { return false }

func (c *QueueCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

func (c *QueueCommand) Run(ctx interface{}) error {
	context_, ok := ctx.(*core.SlashInteractionContext)
	if !ok {
		return nil
	}

	guildID := context_.Event.GuildID
	items := c.Bot.Music().QueueItems(guildID)

	var b strings.Builder
	if len(items) == 0 {
		b.WriteString("🎵 The queue is empty.\n")
	} else {
		b.WriteString(fmt.Sprintf("🎵 **%d track(s) queued:**\n", len(items)))
		for i, item := range items {
			title := item.URL
			if item.Meta != nil && item.Meta.Title != "" {
				title = item.Meta.Title
			}
			b.WriteString(fmt.Sprintf("%d. %s\n", i+1, title))
		}
	}

	if context_.Storage != nil {
		if history, err := context_.Storage.FetchTrackHistory(guildID); err == nil && len(history) > 0 {
			b.WriteString("\n**Recently played:**\n")
			for _, tr := range history {
				b.WriteString(fmt.Sprintf("• %s\n", tr.Title))
			}
		}
	}

	return respond(context_.Session, context_.Event, b.String())
}
