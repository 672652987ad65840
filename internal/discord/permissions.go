package discord

import (
	"github.com/bwmarrin/discordgo"
)

// PermissionChecker reports whether the bot can join and speak in a voice
// channel.
type PermissionChecker struct {
	dg *discordgo.Session
}

func (p *PermissionChecker) CanConnectAndSpeak(guildID, channelID string) bool {
	if p.dg.State == nil || p.dg.State.User == nil {
		return false
	}

	perms, err := p.dg.UserChannelPermissions(p.dg.State.User.ID, channelID)
	if err != nil {
		return false
	}

	need := int64(discordgo.PermissionVoiceConnect | discordgo.PermissionVoiceSpeak)
	return perms&need == need
}
