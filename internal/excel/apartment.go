package excel

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/go-ole/go-ole"
)

var errApartmentClosed = errors.New("ole apartment is closed")

// apartment runs every COM call for one application instance on a single
// goroutine locked to its OS thread. COM objects created in a
// single-threaded apartment must only be touched from that thread.
type apartment struct {
	calls   chan func()
	stop    chan struct{}
	done    chan struct{}
	once    sync.Once
	timeout time.Duration
}

func newApartment(timeout time.Duration) (*apartment, error) {
	a := &apartment{
		calls:   make(chan func()),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
		timeout: timeout,
	}
	initErr := make(chan error, 1)
	go a.loop(initErr)
	if err := <-initErr; err != nil {
		return nil, err
	}
	return a, nil
}

func (a *apartment) loop(initErr chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(a.done)

	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		initErr <- fmt.Errorf("failed to initialize COM: %w", err)
		return
	}
	defer ole.CoUninitialize()
	initErr <- nil

	for {
		select {
		case fn := <-a.calls:
			fn()
		case <-a.stop:
			return
		}
	}
}

// call runs fn on the apartment thread and waits for its result.
// When a timeout is configured and fn does not return in time, call
// gives up with ErrCallTimeout; fn keeps running on the apartment.
func (a *apartment) call(fn func() error) error {
	result := make(chan error, 1)
	wrapped := func() {
		defer func() {
			if r := recover(); r != nil {
				result <- fmt.Errorf("panic in ole call: %v", r)
			}
		}()
		result <- fn()
	}

	var timeout <-chan time.Time
	if a.timeout > 0 {
		timer := time.NewTimer(a.timeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case a.calls <- wrapped:
	case <-a.done:
		return errApartmentClosed
	case <-timeout:
		return ErrCallTimeout
	}

	select {
	case err := <-result:
		return err
	case <-timeout:
		return ErrCallTimeout
	}
}

// close stops the apartment thread and uninitializes COM on it.
func (a *apartment) close() {
	a.once.Do(func() {
		close(a.stop)
	})
}
