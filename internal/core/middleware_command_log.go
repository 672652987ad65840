package core

import (
	"log"
	"time"

	"github.com/pyraxo/haru/internal/storage"
)

// WithCommandLogger wraps a command to log its execution
func WithCommandLogger() Middleware {
	return func(cmd Command) Command {
		return &wrappedCommand{
			Command: cmd,
			wrap: func(ctx interface{}) error {
				// Run the actual command first
				err := cmd.Run(ctx)

				if v, ok := ctx.(*SlashInteractionContext); ok && v.Storage != nil && v.Event.Member != nil {
					user := v.Event.Member.User
					if e := LogCommand(v.Storage, v.Event.GuildID, v.Event.ChannelID, user.ID, user.Username, cmd.Name()); e != nil {
						log.Printf("[WARN] Failed to log command /%s: %v", cmd.Name(), e)
					}
				}

				return err
			},
		}
	}
}

// LogCommand appends a command execution to the guild's history.
func LogCommand(store *storage.Storage, guildID, channelID, userID, username, command string) error {
	return store.AppendCommandToHistory(guildID, storage.CommandHistoryRecord{
		ChannelID: channelID,
		UserID:    userID,
		Username:  username,
		Command:   command,
		Datetime:  time.Now(),
	})
}
