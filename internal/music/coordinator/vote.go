package coordinator

import (
	"errors"
	"log"
)

// skipQuorum is the vote fraction required for a cooperative skip.
const skipQuorum = 0.5

// smallChannelLimit: with this many members or fewer (bot included), a skip
// goes through without a vote.
const smallChannelLimit = 2

var ErrAlreadyVoted = errors.New("already voted to skip this track")

// SkipOutcome reports what a skip request actually did.
type SkipOutcome int

const (
	// SkipNothing: nothing meaningful to skip to; no state changed.
	SkipNothing SkipOutcome = iota
	// SkipVoteRecorded: the vote was counted but quorum is not yet met.
	SkipVoteRecorded
	// SkipExecuted: the current track was skipped.
	SkipExecuted
)

// Skip handles a skip request. Non-forced skips in channels with more than
// smallChannelLimit members require a majority of channel members to vote;
// repeat votes are rejected rather than double-counted. Reaching quorum or
// forcing clears the vote set and skips.
func (c *Coordinator) Skip(guildID, requesterID string, force bool) (SkipOutcome, error) {
	mu := c.transition(guildID)
	mu.Lock()
	defer mu.Unlock()

	s := c.session(guildID)

	if !s.Playing() || s.Queue().Len() == 0 {
		return SkipNothing, nil
	}

	channelID := s.BoundChannel()
	members, err := c.voice.ChannelMembers(guildID, channelID)
	if err != nil {
		members = nil
	}

	if !force && len(members) > smallChannelLimit {
		count, already := s.AddVote(requesterID)
		if already {
			return SkipNothing, ErrAlreadyVoted
		}
		if float64(count)/float64(len(members)) < skipQuorum {
			log.Printf("[Coordinator] Skip vote recorded %d/%d | guild=%s", count, len(members), guildID)
			return SkipVoteRecorded, nil
		}
	}

	s.ClearVotes()
	if err := c.voice.Skip(guildID, channelID); err != nil {
		return SkipNothing, err
	}
	log.Printf("[Coordinator] Track skipped | guild=%s", guildID)
	return SkipExecuted, nil
}
