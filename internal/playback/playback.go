// Package playback drives a malgo output device from a ring buffer. The
// device callback drains whatever the producer has buffered; short reads
// are padded with silence so the device never starves the backend.
package playback

import (
	"log/slog"
	"runtime"
	"strings"
	"time"
	"unsafe"

	"github.com/gen2brain/malgo"

	"github.com/tphakala/pcmring/internal/conf"
	"github.com/tphakala/pcmring/internal/errors"
	"github.com/tphakala/pcmring/internal/logging"
	"github.com/tphakala/pcmring/internal/observability"
	"github.com/tphakala/pcmring/internal/ringbuf"
)

// playbackSink holds information about the selected output device.
type playbackSink struct {
	Name    string
	ID      string
	Pointer unsafe.Pointer
}

// Engine owns one malgo playback device draining one registered ring
// buffer source.
type Engine struct {
	settings *conf.Settings
	source   string
	metrics  *observability.Metrics // may be nil
	log      *slog.Logger
}

// NewEngine creates a playback engine for a source that has already been
// allocated in the ring buffer registry. metrics may be nil.
func NewEngine(settings *conf.Settings, source string, metrics *observability.Metrics) *Engine {
	log := logging.ForService("playback")
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		settings: settings,
		source:   source,
		metrics:  metrics,
		log:      log,
	}
}

// platformBackend picks the native audio backend for the current OS,
// leaving malgo to auto-select elsewhere.
func platformBackend() []malgo.Backend {
	switch runtime.GOOS {
	case "linux":
		return []malgo.Backend{malgo.BackendAlsa}
	case "windows":
		return []malgo.Backend{malgo.BackendWasapi}
	case "darwin":
		return []malgo.Backend{malgo.BackendCoreaudio}
	default:
		return nil
	}
}

// selectPlaybackSink picks the output device matching the configured name
// or ID substring. An empty setting selects the system default.
func selectPlaybackSink(settings *conf.Settings, infos []malgo.DeviceInfo) (playbackSink, error) {
	want := strings.ToLower(settings.Audio.Device)

	if want == "" {
		for i := range infos {
			if infos[i].IsDefault != 0 {
				return playbackSink{Name: infos[i].Name(), ID: decodeDeviceID(infos[i].ID.String())}, nil
			}
		}
		// Backend reported no default, let malgo pick
		return playbackSink{Name: "system default"}, nil
	}

	for i := range infos {
		decodedID := decodeDeviceID(infos[i].ID.String())
		if strings.Contains(strings.ToLower(infos[i].Name()), want) ||
			strings.Contains(strings.ToLower(decodedID), want) {
			return playbackSink{
				Name:    infos[i].Name(),
				ID:      decodedID,
				Pointer: infos[i].ID.Pointer(),
			}, nil
		}
	}

	return playbackSink{}, errors.Newf("no playback device matching %q", settings.Audio.Device).
		Component("playback").
		Category(errors.CategoryAudioDevice).
		Context("device", settings.Audio.Device).
		Build()
}

// Run opens the playback device and streams buffered PCM until quitChan
// closes. On unexpected device stops it attempts a device restart, and
// signals restartChan when a full context restart is needed. A nil
// return with quitChan still open means the device requested a context
// restart; the caller decides whether to run the engine again.
func (e *Engine) Run(quitChan, restartChan chan struct{}, levelChan chan<- LevelData) error {
	var device *malgo.Device

	malgoCtx, err := malgo.InitContext(platformBackend(), malgo.ContextConfig{}, func(message string) {
		if e.settings.Debug {
			e.log.Debug("malgo", "message", strings.TrimSpace(message))
		}
	})
	if err != nil {
		return errors.New(err).
			Component("playback").
			Category(errors.CategoryAudioDevice).
			Context("operation", "init_context").
			Build()
	}
	defer malgoCtx.Uninit() //nolint:errcheck

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatS16
	deviceConfig.Playback.Channels = uint32(e.settings.Audio.Channels)
	deviceConfig.SampleRate = uint32(e.settings.Audio.SampleRate)
	deviceConfig.Alsa.NoMMap = 1

	infos, err := malgoCtx.Devices(malgo.Playback)
	if err != nil {
		return errors.New(err).
			Component("playback").
			Category(errors.CategoryAudioDevice).
			Context("operation", "list_devices").
			Build()
	}

	sink, err := selectPlaybackSink(e.settings, infos)
	if err != nil {
		return err
	}
	if sink.Pointer != nil {
		deviceConfig.Playback.DeviceID = sink.Pointer
	}

	// Drain the ring buffer into every output period the backend requests.
	// A short read means the producer is behind; the remainder plays as
	// silence rather than stale data.
	onSendFrames := func(pOutputSamples, pInputSamples []byte, framecount uint32) {
		n, err := ringbuf.ReadFrom(e.source, pOutputSamples)
		if err != nil {
			n = 0
		}
		if n < len(pOutputSamples) {
			clear(pOutputSamples[n:])
			if e.metrics != nil {
				e.metrics.Buffer.RecordUnderrun(e.source)
			}
		}

		if levelChan != nil {
			select {
			case levelChan <- CalculateLevel(pOutputSamples[:n]):
			default:
				// Receiver is behind, drop the update
			}
		}
	}

	// onStopDevice is called when the device stops, either normally or unexpectedly
	onStopDevice := func() {
		go func() {
			select {
			case <-quitChan:
				// Quit signal has been received, do not attempt to restart
				return
			case <-time.After(100 * time.Millisecond):
				// Wait a bit before restarting to avoid rapid restart loops
				if err := device.Start(); err != nil {
					e.log.Warn("failed to restart playback device, requesting context restart", "error", err)
					time.Sleep(1 * time.Second)
					select {
					case restartChan <- struct{}{}:
					case <-quitChan:
					}
				} else if e.settings.Debug {
					e.log.Debug("playback device restarted")
				}
			}
		}()
	}

	deviceCallbacks := malgo.DeviceCallbacks{
		Data: onSendFrames,
		Stop: onStopDevice,
	}

	device, err = malgo.InitDevice(malgoCtx.Context, deviceConfig, deviceCallbacks)
	if err != nil {
		return errors.New(err).
			Component("playback").
			Category(errors.CategoryAudioDevice).
			Context("operation", "init_device").
			Context("device", sink.Name).
			Build()
	}

	if err := device.Start(); err != nil {
		device.Uninit()
		return errors.New(err).
			Component("playback").
			Category(errors.CategoryAudioDevice).
			Context("operation", "start_device").
			Context("device", sink.Name).
			Build()
	}
	defer device.Uninit()

	e.log.Info("playing on device", "name", sink.Name, "id", sink.ID,
		"samplerate", e.settings.Audio.SampleRate, "channels", e.settings.Audio.Channels)

	for {
		select {
		case <-quitChan:
			if e.settings.Debug {
				e.log.Debug("stopping playback due to quit signal")
			}
			return nil
		case <-restartChan:
			// Tear down the device and context; the supervisor runs the
			// engine again with a fresh context.
			if e.settings.Debug {
				e.log.Debug("restarting playback")
			}
			return nil
		default:
			time.Sleep(100 * time.Millisecond)
		}
	}
}
