package playback

import (
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tphakala/pcmring/internal/errors"
)

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("supervisor did not finish")
	}
}

func TestSuperviseRelaunchesUntilError(t *testing.T) {
	t.Parallel()

	quitChan := make(chan struct{})
	var wg sync.WaitGroup

	// A nil return with the quit channel still open is a restart request;
	// the supervisor must run the engine again until it fails for real.
	runs := 0
	done := Supervise(&wg, quitChan, slog.Default(), func() error {
		runs++
		if runs < 3 {
			return nil
		}
		return errors.NewStd("device gone")
	})

	waitDone(t, done)
	wg.Wait()
	assert.Equal(t, 3, runs, "supervisor should relaunch after each restart request")
}

func TestSuperviseStopsOnQuit(t *testing.T) {
	t.Parallel()

	quitChan := make(chan struct{})
	var wg sync.WaitGroup

	runs := 0
	done := Supervise(&wg, quitChan, slog.Default(), func() error {
		runs++
		close(quitChan)
		return nil
	})

	waitDone(t, done)
	wg.Wait()
	assert.Equal(t, 1, runs, "a clean exit after quit must not relaunch")
}

func TestSuperviseSignalsImmediateFailure(t *testing.T) {
	t.Parallel()

	quitChan := make(chan struct{})
	var wg sync.WaitGroup

	done := Supervise(&wg, quitChan, slog.Default(), func() error {
		return errors.Newf("no playback device").
			Component("playback").
			Category(errors.CategoryAudioDevice).
			Build()
	})

	// The done channel is the liveness signal: producers watching it must
	// not be left waiting on a consumer that never started.
	waitDone(t, done)
	wg.Wait()
}
