package discord

import (
	"fmt"

	musiccmd "github.com/pyraxo/haru/internal/commands/music"
	"github.com/pyraxo/haru/internal/core"
	"github.com/pyraxo/haru/internal/music/coordinator"
)

// registerMusicCommands registers the music commands
func (b *Bot) registerMusicCommands() {
	cmds := []core.Command{
		&musiccmd.PlayCommand{Bot: b},
		&musiccmd.SkipCommand{Bot: b},
		&musiccmd.StopCommand{Bot: b},
		&musiccmd.VolumeCommand{Bot: b},
		&musiccmd.JoinCommand{Bot: b},
		&musiccmd.LeaveCommand{Bot: b},
		&musiccmd.QueueCommand{Bot: b},
	}

	for _, cmd := range cmds {
		core.RegisterCommand(
			core.ApplyMiddlewares(
				cmd,
				core.WithGuildOnly(),
				core.WithCommandLogger(),
			),
		)
	}
}

// Music returns the playback coordinator.
func (b *Bot) Music() *coordinator.Coordinator {
	return b.music
}

// FindUserVoiceState finds the voice state of a user
func (b *Bot) FindUserVoiceState(guildID, userID string) (*core.VoiceState, error) {
	guild, err := b.dg.State.Guild(guildID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving guild: %w", err)
	}

	for _, vs := range guild.VoiceStates {
		if vs.UserID == userID {
			return &core.VoiceState{
				ChannelID: vs.ChannelID,
				UserID:    vs.UserID,
			}, nil
		}
	}
	return nil, fmt.Errorf("user not in any voice channel")
}
