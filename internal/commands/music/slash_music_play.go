package music

import (
	"context"
	"fmt"

	"github.com/pyraxo/haru/internal/core"
	"github.com/pyraxo/haru/internal/music/coordinator"

	"github.com/bwmarrin/discordgo"
)

type PlayCommand struct {
	Bot core.MusicProvider
}

func (c *PlayCommand) Name() string        { return "play" }
func (c *PlayCommand) Description() string { return "Play a track or add it to the queue" }
func (c *PlayCommand) Aliases() []string   { return []string{} }
func (c *PlayCommand) Group() string       { return "music" }
func (c *PlayCommand) Category() string    { return "🎵 Music" }
func (c *PlayCommand) RequireAdmin() bool  { return false }

func (c *PlayCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "input",
				Description: "Link to the track",
				Required:    true,
			},
		},
	}
}

func (c *PlayCommand) Run(ctx interface{}) error {
	context_, ok := ctx.(*core.SlashInteractionContext)
	if !ok {
		return nil
	}

	session := context_.Session
	event := context_.Event
	guildID := event.GuildID
	member := event.Member

	var input string
	for _, opt := range event.ApplicationCommandData().Options {
		if opt.Name == "input" {
			input = opt.StringValue()
		}
	}
	if input == "" {
		return respond(session, event, "🎵 Error: input is required")
	}

	if err := deferResponse(session, event); err != nil {
		return fmt.Errorf("failed to send deferred response: %w", err)
	}

	voiceState, err := c.Bot.FindUserVoiceState(guildID, member.User.ID)
	if err != nil {
		followUp(session, event, "🎵 You need to be in a voice channel first.")
		return nil
	}

	music := c.Bot.Music()
	if err := music.Connect(coordinator.ConnectRequest{
		GuildID:        guildID,
		VoiceChannelID: voiceState.ChannelID,
		TextChannelID:  event.ChannelID,
	}); err != nil {
		followUp(session, event, userMessage(err))
		return nil
	}

	meta, started, err := music.Add(context.Background(), guildID, input, member.User.ID)
	if err != nil {
		followUp(session, event, userMessage(err))
		return nil
	}

	if started {
		followUp(session, event, fmt.Sprintf("▶️ Now playing: **%s**\n%s", meta.Title, meta.URL))
	} else {
		followUp(session, event, fmt.Sprintf("🎶 Added to queue: **%s**", meta.Title))
	}
	return nil
}
