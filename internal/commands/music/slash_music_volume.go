package music

import (
	"fmt"

	"github.com/pyraxo/haru/internal/core"

	"github.com/bwmarrin/discordgo"
)

type VolumeCommand struct {
	Bot core.MusicProvider
}

func (c *VolumeCommand) Name() string        { return "volume" }
func (c *VolumeCommand) Description() string { return "Set playback volume (applies on next track)" }
func (c *VolumeCommand) Aliases() []string   { return []string{} }
func (c *VolumeCommand) Group() string       { return "music" }
func (c *VolumeCommand) Category() string    { return "🎵 Music" }
func (c *VolumeCommand) RequireAdmin() bool  { return false }

func (c *VolumeCommand) SlashDefinition() *discordgo.ApplicationCommand {
	minValue := float64(0)
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "percent",
				Description: "Volume percentage, 0-100",
				Required:    true,
				MinValue:    &minValue,
				MaxValue:    100,
			},
		},
	}
}

func (c *VolumeCommand) Run(ctx interface{}) error {
	context_, ok := ctx.(*core.SlashInteractionContext)
	if !ok {
		return nil
	}

	var percent int
	for _, opt := range context_.Event.ApplicationCommandData().Options {
		if opt.Name == "percent" {
			percent = int(opt.IntValue())
		}
	}

	c.Bot.Music().SetVolume(context_.Event.GuildID, percent)
	return respond(context_.Session, context_.Event, fmt.Sprintf("🔊 Volume set to %d%%.", percent))
}
