package session

import "sync"

// Registry is the single owner of all sessions.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// GetOrCreate returns the session for a guild, creating it on first use.
func (r *Registry) GetOrCreate(guildID string) *Session {
	r.mu.RLock()
	s, ok := r.sessions[guildID]
	r.mu.RUnlock()
	if ok {
		return s
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[guildID]; ok {
		return s
	}
	s = newSession(guildID)
	r.sessions[guildID] = s
	return s
}

func (r *Registry) Get(guildID string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[guildID]
	return s, ok
}

// Remove tears down a guild's session. Used when the bot leaves the guild's
// voice context.
func (r *Registry) Remove(guildID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, guildID)
}

// Bind sets the bound output channel for a guild.
func (r *Registry) Bind(guildID, channelID string) {
	r.GetOrCreate(guildID).Bind(channelID)
}

// Unbind removes the binding, if any.
func (r *Registry) Unbind(guildID string) {
	if s, ok := r.Get(guildID); ok {
		s.Unbind()
	}
}

// BoundChannel returns the bound channel for a guild, or "" when there is
// none. Never fails.
func (r *Registry) BoundChannel(guildID string) string {
	s, ok := r.Get(guildID)
	if !ok {
		return ""
	}
	return s.BoundChannel()
}
