// Package play implements the subcommand that streams a WAV file through
// the ring buffer into a playback device.
package play

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tphakala/pcmring/internal/conf"
	"github.com/tphakala/pcmring/internal/errors"
	"github.com/tphakala/pcmring/internal/logging"
	"github.com/tphakala/pcmring/internal/observability"
	"github.com/tphakala/pcmring/internal/playback"
	"github.com/tphakala/pcmring/internal/ringbuf"
	"github.com/tphakala/pcmring/internal/wavefile"
)

// pacing poll interval for the producer when the buffer is at highwater
const pollInterval = 10 * time.Millisecond

var errAborted = errors.NewStd("playback aborted")

// Command creates the play subcommand.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play [input.wav]",
		Short: "Play a WAV file through the ring buffer pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlayback(settings, args[0])
		},
	}

	cmd.PersistentFlags().IntVar(&settings.Audio.ChunkSize, "chunksize", settings.Audio.ChunkSize, "Producer write granularity in bytes")
	cmd.PersistentFlags().IntVar(&settings.Audio.MaxBuffered, "maxbuffered", settings.Audio.MaxBuffered, "Bytes buffered ahead before the producer pauses")

	return cmd
}

// runPlayback wires the pipeline: WAV decoder -> ring buffer -> playback
// device. The producer paces itself against the advisory occupancy; the
// buffer itself never rejects a write.
func runPlayback(settings *conf.Settings, path string) error {
	log := logging.ForService("play")
	if log == nil {
		log = slog.Default()
	}

	// Flags may have changed the buffering parameters after the config
	// file was validated on load.
	if err := conf.ValidateSettings(settings); err != nil {
		return err
	}

	info, err := wavefile.ReadInfo(path)
	if err != nil {
		return err
	}

	// The device is opened at the file's own format, no resampling.
	settings.Audio.SampleRate = info.SampleRate
	settings.Audio.Channels = info.NumChannels

	source := filepath.Base(path)
	if err := ringbuf.AllocateIfNeeded(source, settings.Audio.BufferSize); err != nil {
		return err
	}
	defer ringbuf.Remove(source) //nolint:errcheck

	quitChan := make(chan struct{})
	restartChan := make(chan struct{}, 1)
	levelChan := make(chan playback.LevelData, 16)
	var wg sync.WaitGroup

	var m *observability.Metrics
	if settings.Telemetry.Enabled {
		m, err = observability.NewMetrics()
		if err != nil {
			return err
		}
		ringbuf.SetMetrics(m.Buffer)

		endpoint, err := observability.NewEndpoint(settings, m)
		if err != nil {
			return err
		}
		endpoint.Start(&wg, quitChan)
	}

	// The supervisor relaunches the engine on device-requested restarts;
	// engineDone closing means nothing will drain the buffer anymore.
	engine := playback.NewEngine(settings, source, m)
	engineDone := playback.Supervise(&wg, quitChan, log, func() error {
		return engine.Run(quitChan, restartChan, levelChan)
	})

	wg.Add(1)
	go func() {
		defer wg.Done()
		printLevels(levelChan, quitChan)
	}()

	// Producer: decode the file into the ring buffer, pausing at the
	// pacing highwater so memory stays bounded even though the buffer
	// itself would grow without complaint.
	producerDone := make(chan error, 1)
	go func() {
		producerDone <- wavefile.Stream(path, settings.Audio.ChunkSize, func(pcm []byte) error {
			for ringbuf.Occupancy(source)+len(pcm) > settings.Audio.MaxBuffered {
				select {
				case <-quitChan:
					return errAborted
				case <-time.After(pollInterval):
				}
			}
			return ringbuf.WriteTo(source, pcm)
		})
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-sigChan:
		log.Info("interrupted, stopping playback")
		close(quitChan)
		wg.Wait()
		return nil
	case <-engineDone:
		close(quitChan)
		wg.Wait()
		return errors.Newf("playback engine stopped before the file finished").
			Component("play").
			Category(errors.CategoryAudioDevice).
			Context("source", source).
			Build()
	case err := <-producerDone:
		if err != nil && !errors.Is(err, errAborted) {
			close(quitChan)
			wg.Wait()
			return err
		}
	}

	// File fully decoded, let the device drain what is still buffered.
	for ringbuf.Occupancy(source) > 0 {
		select {
		case <-sigChan:
			log.Info("interrupted while draining")
			close(quitChan)
			wg.Wait()
			return nil
		case <-engineDone:
			close(quitChan)
			wg.Wait()
			return errors.Newf("playback engine stopped with %d bytes still buffered", ringbuf.Occupancy(source)).
				Component("play").
				Category(errors.CategoryAudioDevice).
				Context("source", source).
				Build()
		case <-time.After(pollInterval):
		}
	}

	close(quitChan)
	wg.Wait()
	fmt.Println()
	return nil
}

// printLevels renders a single-line level meter until quitChan closes.
func printLevels(levelChan <-chan playback.LevelData, quitChan <-chan struct{}) {
	const width = 40
	for {
		select {
		case <-quitChan:
			return
		case data := <-levelChan:
			filled := data.Level * width / 100
			bar := strings.Repeat("=", filled) + strings.Repeat(" ", width-filled)
			clip := " "
			if data.Clipping {
				clip = "!"
			}
			fmt.Printf("\r[%s]%s %3d", bar, clip, data.Level)
		}
	}
}
