package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickBestAudioPrefersWebmOverHigherBitrateMP4(t *testing.T) {
	formats := []Format{
		{ItagNo: 140, MimeType: "audio/mp4; codecs=mp4a.40.2", Bitrate: 128, AudioChannels: 2},
		{ItagNo: 250, MimeType: "audio/webm; codecs=opus", Bitrate: 70, AudioChannels: 2},
	}

	chosen, family, err := pickBestAudio(formats)
	require.NoError(t, err)
	assert.Equal(t, 250, chosen.ItagNo)
	assert.Equal(t, FamilyWebm, family)
}

func TestPickBestAudioHighestBitrateWithinFamily(t *testing.T) {
	formats := []Format{
		{ItagNo: 249, MimeType: "audio/webm; codecs=opus", Bitrate: 50, AudioChannels: 2},
		{ItagNo: 251, MimeType: "audio/webm; codecs=opus", Bitrate: 160, AudioChannels: 2},
		{ItagNo: 250, MimeType: "audio/webm; codecs=opus", Bitrate: 70, AudioChannels: 2},
	}

	chosen, family, err := pickBestAudio(formats)
	require.NoError(t, err)
	assert.Equal(t, 251, chosen.ItagNo)
	assert.Equal(t, FamilyWebm, family)
}

func TestPickBestAudioFallsBackToMP4(t *testing.T) {
	formats := []Format{
		{ItagNo: 139, MimeType: "audio/mp4; codecs=mp4a.40.5", Bitrate: 48, AudioChannels: 2},
		{ItagNo: 140, MimeType: "audio/mp4; codecs=mp4a.40.2", Bitrate: 128, AudioChannels: 2},
	}

	chosen, family, err := pickBestAudio(formats)
	require.NoError(t, err)
	assert.Equal(t, 140, chosen.ItagNo)
	assert.Equal(t, FamilyMP4, family)
}

func TestPickBestAudioGenericLastResort(t *testing.T) {
	formats := []Format{
		{ItagNo: 18, MimeType: "video/mp4", Bitrate: 96, AudioChannels: 2, HasVideo: true},
		{ItagNo: 137, MimeType: "video/mp4", Bitrate: 4000, AudioChannels: 0, HasVideo: true},
	}

	chosen, family, err := pickBestAudio(formats)
	require.NoError(t, err)
	assert.Equal(t, 18, chosen.ItagNo)
	assert.Equal(t, FamilyOther, family)
}

func TestPickBestAudioAudioOnlyBeatsMixedInSameSet(t *testing.T) {
	formats := []Format{
		{ItagNo: 251, MimeType: "audio/webm; codecs=opus", Bitrate: 200, AudioChannels: 2, HasVideo: true},
		{ItagNo: 250, MimeType: "audio/webm; codecs=opus", Bitrate: 70, AudioChannels: 2},
	}

	chosen, _, err := pickBestAudio(formats)
	require.NoError(t, err)
	assert.Equal(t, 250, chosen.ItagNo)
}

func TestPickBestAudioNothingPlayable(t *testing.T) {
	formats := []Format{
		{ItagNo: 137, MimeType: "video/mp4", Bitrate: 4000, AudioChannels: 0, HasVideo: true},
	}

	_, _, err := pickBestAudio(formats)
	assert.ErrorIs(t, err, ErrNoPlayableAudio)
}

func TestContainerOf(t *testing.T) {
	assert.Equal(t, "webm", containerOf("audio/webm; codecs=opus"))
	assert.Equal(t, "mp4", containerOf("audio/mp4"))
	assert.Equal(t, "ogg", containerOf("ogg"))
}
