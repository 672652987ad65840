package resolver

import "strings"

// Family priority is a business rule, not an inference: WebM/Opus itags are
// preferred for efficiency, MP4/AAC itags are the fallback, and anything else
// that carries audio is the last resort.
var (
	webmAudioItags = []int{251, 250, 249}
	mp4AudioItags  = []int{141, 140, 139}
)

// pickBestAudio chooses the stream the player should use. Within a candidate
// set the highest-bitrate audio-only stream wins; mixed audio+video streams
// are only used when no audio-only stream qualifies.
func pickBestAudio(formats []Format) (Format, StreamFamily, error) {
	if f, ok := bestInSet(formats, webmAudioItags); ok {
		return f, FamilyWebm, nil
	}
	if f, ok := bestInSet(formats, mp4AudioItags); ok {
		return f, FamilyMP4, nil
	}

	var generic []Format
	for _, f := range formats {
		if f.AudioChannels > 0 {
			generic = append(generic, f)
		}
	}
	if f, ok := bestOf(generic); ok {
		return f, FamilyOther, nil
	}

	return Format{}, "", ErrNoPlayableAudio
}

func bestInSet(formats []Format, itags []int) (Format, bool) {
	var candidates []Format
	for _, itag := range itags {
		for _, f := range formats {
			if f.ItagNo == itag {
				candidates = append(candidates, f)
			}
		}
	}
	return bestOf(candidates)
}

func bestOf(candidates []Format) (Format, bool) {
	best := -1
	for i, f := range candidates {
		if f.Bitrate <= 0 || f.HasVideo {
			continue
		}
		if best == -1 || f.Bitrate > candidates[best].Bitrate {
			best = i
		}
	}
	if best >= 0 {
		return candidates[best], true
	}
	for _, f := range candidates {
		if f.Bitrate > 0 {
			return f, true
		}
	}
	return Format{}, false
}

// containerOf extracts the container tag from a MIME type,
// e.g. "audio/webm; codecs=opus" -> "webm".
func containerOf(mimeType string) string {
	mimeType, _, _ = strings.Cut(mimeType, ";")
	if _, sub, ok := strings.Cut(mimeType, "/"); ok {
		return strings.TrimSpace(sub)
	}
	return strings.TrimSpace(mimeType)
}
