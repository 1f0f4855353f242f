package excel

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// Backend names accepted by NewDispatcher.
const (
	BackendAuto     = "auto"
	BackendOle      = "ole"
	BackendExcelize = "excelize"
)

// NewDispatcher returns the Dispatcher for the named backend.
// BackendAuto uses OLE automation on Windows, where Excel can be
// dispatched, and the excelize emulation elsewhere.
func NewDispatcher(backend string, callTimeout time.Duration) (Dispatcher, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendAuto:
		if runtime.GOOS == "windows" {
			return NewOleDispatcher(callTimeout), nil
		}
		return NewExcelizeDispatcher(), nil
	case BackendOle:
		return NewOleDispatcher(callTimeout), nil
	case BackendExcelize:
		return NewExcelizeDispatcher(), nil
	default:
		return nil, fmt.Errorf("unknown backend: %s (must be auto, ole, or excelize)", backend)
	}
}

// DefaultDispatcher returns the auto-selected Dispatcher without a call timeout.
func DefaultDispatcher() Dispatcher {
	d, _ := NewDispatcher(BackendAuto, 0)
	return d
}
