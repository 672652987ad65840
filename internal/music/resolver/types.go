package resolver

import "time"

// StreamFamily identifies which container family the chosen audio stream came
// from. The player needs it to pick the right decode path.
type StreamFamily string

const (
	FamilyWebm  StreamFamily = "webm"
	FamilyMP4   StreamFamily = "mp4"
	FamilyOther StreamFamily = "other"
)

// Format is one candidate stream reported by the resolver backend.
type Format struct {
	ItagNo        int
	MimeType      string
	Bitrate       int // declared audio bitrate, kbps
	AudioChannels int
	HasVideo      bool
	URL           string
}

// RawInfo is the unprocessed result of a backend lookup.
type RawInfo struct {
	ID        string
	Title     string
	Thumbnail string
	Duration  int // seconds
	Formats   []Format
}

// StreamMetadata is the resolved, playable description of a reference.
// An empty AudioURL means the entry needs re-resolution before play.
type StreamMetadata struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Thumbnail string       `json:"thumbnail"`
	URL       string       `json:"url"`
	AudioURL  string       `json:"audiourl"`
	Container string       `json:"container"`
	Itag      int          `json:"itag"`
	Family    StreamFamily `json:"family"`
	Expiry    time.Time    `json:"expiry"`
	Duration  int          `json:"duration"`
}

// Expired reports whether the signed stream URL has passed its safety cutoff.
// A zero Expiry means the URL carried no expiry signal and never goes stale.
func (m *StreamMetadata) Expired() bool {
	return !m.Expiry.IsZero() && time.Now().After(m.Expiry)
}
