package play

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/pcmring/internal/conf"
	"github.com/tphakala/pcmring/internal/errors"
)

func playbackSettings() *conf.Settings {
	return &conf.Settings{
		Audio: conf.AudioSettings{
			SampleRate:  conf.DefaultSampleRate,
			Channels:    conf.DefaultChannels,
			BitDepth:    conf.DefaultBitDepth,
			BufferSize:  conf.DefaultBufferSize,
			ChunkSize:   conf.DefaultChunkSize,
			MaxBuffered: conf.DefaultMaxBuffered,
		},
	}
}

// Flag values land on the settings struct after the config file has been
// validated, so the command has to validate again before starting the
// pipeline. A highwater below the chunk size would park the producer
// forever.
func TestRunPlaybackRevalidatesSettings(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		mutate func(*conf.Settings)
	}{
		{"zero_maxbuffered", func(s *conf.Settings) { s.Audio.MaxBuffered = 0 }},
		{"highwater_below_chunk", func(s *conf.Settings) { s.Audio.MaxBuffered = s.Audio.ChunkSize - 1 }},
		{"zero_chunk", func(s *conf.Settings) { s.Audio.ChunkSize = 0 }},
		{"negative_buffer", func(s *conf.Settings) { s.Audio.BufferSize = -1 }},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			settings := playbackSettings()
			tc.mutate(settings)

			// The path does not exist; a configuration error proves the
			// settings were rejected before the file was even opened.
			err := runPlayback(settings, filepath.Join(t.TempDir(), "missing.wav"))
			require.Error(t, err)
			assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))
		})
	}
}

func TestRunPlaybackMissingFile(t *testing.T) {
	t.Parallel()

	err := runPlayback(playbackSettings(), filepath.Join(t.TempDir(), "missing.wav"))
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryFileIO))
}
