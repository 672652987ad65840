// Package stream decodes a resolved audio URL into raw PCM via ffmpeg and
// pushes it opus-encoded into a Discord voice connection.
package stream

import (
	"fmt"
	"io"
	"os/exec"

	"github.com/pyraxo/haru/internal/music/resolver"
)

const (
	channels   = 2
	sampleRate = 48000
	frameSize  = 960 // 20ms at 48kHz
)

// OpenAudioStream launches ffmpeg reading the chosen audio stream and
// producing s16le PCM on stdout. The stream family picks the demuxer hint so
// ffmpeg does not have to probe the signed URL. Volume is applied here, once,
// for the whole track.
func OpenAudioStream(meta *resolver.StreamMetadata, volume float64) (io.ReadCloser, func(), error) {
	args := []string{
		"-reconnect", "1",
		"-reconnect_streamed", "1",
		"-reconnect_delay_max", "5",
	}

	switch meta.Family {
	case resolver.FamilyWebm:
		args = append(args, "-f", "webm")
	case resolver.FamilyMP4:
		args = append(args, "-f", "mp4")
	}

	args = append(args,
		"-i", meta.AudioURL,
		"-af", fmt.Sprintf("volume=%.2f", volume),
		"-f", "s16le",
		"-ar", fmt.Sprintf("%d", sampleRate),
		"-ac", fmt.Sprintf("%d", channels),
		"-loglevel", "warning",
		"pipe:1",
	)

	ffmpeg := exec.Command("ffmpeg", args...)

	reader, err := ffmpeg.StdoutPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("stdout pipe error: %w", err)
	}

	if err := ffmpeg.Start(); err != nil {
		return nil, nil, fmt.Errorf("command start error: %w", err)
	}

	cleanup := func() {
		_ = ffmpeg.Process.Kill()
	}

	return reader, cleanup, nil
}
