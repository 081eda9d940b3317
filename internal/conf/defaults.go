package conf

import "github.com/spf13/viper"

// Default PCM format, chosen to match what the playback backend is opened
// with when the config carries no overrides.
const (
	DefaultSampleRate = 48000
	DefaultChannels   = 2
	DefaultBitDepth   = 16

	// DefaultBufferSize is the initial ring buffer capacity. The buffer
	// grows on demand so this only sets the starting allocation.
	DefaultBufferSize = 2048

	// DefaultChunkSize is the producer write granularity.
	DefaultChunkSize = 32768

	// DefaultMaxBuffered is the producer pacing highwater: roughly one
	// second of s16le stereo audio at 48 kHz.
	DefaultMaxBuffered = DefaultSampleRate * DefaultChannels * DefaultBitDepth / 8
)

// setDefaultConfig sets viper defaults for each configuration parameter.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("audio.samplerate", DefaultSampleRate)
	viper.SetDefault("audio.channels", DefaultChannels)
	viper.SetDefault("audio.bitdepth", DefaultBitDepth)
	viper.SetDefault("audio.device", "")
	viper.SetDefault("audio.buffersize", DefaultBufferSize)
	viper.SetDefault("audio.chunksize", DefaultChunkSize)
	viper.SetDefault("audio.maxbuffered", DefaultMaxBuffered)

	viper.SetDefault("telemetry.enabled", false)
	viper.SetDefault("telemetry.listen", "localhost:8090")

	viper.SetDefault("log.enabled", false)
	viper.SetDefault("log.path", "log/pcmring.log")
	viper.SetDefault("log.maxsize", 100)
	viper.SetDefault("log.maxbackups", 3)
	viper.SetDefault("log.maxage", 28)
}

// defaultSettings returns a Settings struct populated with the defaults,
// used when writing the initial config file.
func defaultSettings() *Settings {
	return &Settings{
		Debug: false,
		Audio: AudioSettings{
			SampleRate:  DefaultSampleRate,
			Channels:    DefaultChannels,
			BitDepth:    DefaultBitDepth,
			Device:      "",
			BufferSize:  DefaultBufferSize,
			ChunkSize:   DefaultChunkSize,
			MaxBuffered: DefaultMaxBuffered,
		},
		Telemetry: TelemetrySettings{
			Enabled: false,
			Listen:  "localhost:8090",
		},
		Log: LogSettings{
			Enabled:    false,
			Path:       "log/pcmring.log",
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     28,
		},
	}
}
