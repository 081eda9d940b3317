package conf

import (
	"github.com/tphakala/pcmring/internal/errors"
)

// ValidateSettings checks that loaded settings describe a PCM format and
// buffering configuration the playback pipeline can actually run with.
func ValidateSettings(settings *Settings) error {
	a := &settings.Audio

	if a.SampleRate <= 0 {
		return errors.Newf("invalid sample rate: %d Hz, must be greater than 0", a.SampleRate).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Context("samplerate", a.SampleRate).
			Build()
	}
	if a.Channels != 1 && a.Channels != 2 {
		return errors.Newf("unsupported number of channels: %d", a.Channels).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Context("channels", a.Channels).
			Build()
	}
	if a.BitDepth != 16 {
		return errors.Newf("unsupported bit depth: %d, playback runs at 16", a.BitDepth).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Context("bitdepth", a.BitDepth).
			Build()
	}
	if a.BufferSize < 0 {
		return errors.Newf("invalid buffer size: %d", a.BufferSize).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Context("buffersize", a.BufferSize).
			Build()
	}
	if a.ChunkSize <= 0 {
		return errors.Newf("invalid chunk size: %d, must be greater than 0", a.ChunkSize).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Context("chunksize", a.ChunkSize).
			Build()
	}
	if a.MaxBuffered < a.ChunkSize {
		return errors.Newf("maxbuffered (%d) must be at least chunksize (%d)", a.MaxBuffered, a.ChunkSize).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Build()
	}

	if settings.Telemetry.Enabled && settings.Telemetry.Listen == "" {
		return errors.Newf("telemetry enabled but no listen address configured").
			Component("conf").
			Category(errors.CategoryConfiguration).
			Build()
	}
	if settings.Log.Enabled && settings.Log.Path == "" {
		return errors.Newf("file log enabled but no path configured").
			Component("conf").
			Category(errors.CategoryConfiguration).
			Build()
	}

	return nil
}
