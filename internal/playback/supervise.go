package playback

import (
	"log/slog"
	"sync"
)

// Supervise runs the engine function until it reports an error or the
// quit channel closes, relaunching it after device-requested restarts.
// The returned channel closes when the engine will not run again, so
// callers feeding its ring buffer can stop instead of waiting on a
// consumer that is gone.
func Supervise(wg *sync.WaitGroup, quitChan <-chan struct{}, log *slog.Logger, run func() error) <-chan struct{} {
	done := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(done)
		for {
			if err := run(); err != nil {
				log.Error("playback engine stopped", "error", err)
				return
			}
			select {
			case <-quitChan:
				return
			default:
				log.Info("restarting playback engine")
			}
		}
	}()
	return done
}
