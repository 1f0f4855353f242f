// Package workbook binds a spreadsheet application instance to one
// workbook file and exposes worksheet lookup-or-create on top of it.
package workbook

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/negokaz/excel-handle/internal/excel"
	"github.com/rs/zerolog"
)

// Handle is one open workbook session. It owns its application instance
// exclusively: nothing is shared between handles.
//
// A Handle must be closed with Close or Release. Methods are safe for
// concurrent use; calls are serialized.
type Handle struct {
	mu             sync.Mutex
	path           string
	backend        string
	app            excel.Application
	book           excel.Workbook
	worksheetNames []string
	closed         bool
	logger         zerolog.Logger
}

// Open dispatches a new application instance and binds it to the workbook
// at path. A missing workbook is created; WithOverwrite(true) recreates it
// even when it exists.
func Open(path string, opts ...Option) (*Handle, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.dispatcher == nil {
		o.dispatcher = excel.DefaultDispatcher()
	}

	logger := o.logger.With().
		Str("workbook", path).
		Str("backend", o.dispatcher.GetBackendName()).
		Logger()

	app, err := o.dispatcher.Dispatch()
	if err != nil {
		return nil, newError(KindDispatch, path, err)
	}
	if err := app.SetBackground(o.background); err != nil {
		quit(app, logger)
		return nil, newError(KindDispatch, path, err)
	}
	logger.Debug().Bool("background", o.background).Msg("Dispatched spreadsheet application")

	h := &Handle{
		path:    path,
		backend: o.dispatcher.GetBackendName(),
		app:     app,
		logger:  logger,
	}

	book, err := h.openOrCreate(o.overwriteIfExists)
	if err != nil {
		quit(app, logger)
		return nil, err
	}
	h.book = book

	if err := h.refresh(); err != nil {
		quit(app, logger)
		return nil, newError(KindWorkbookOpen, path, err)
	}
	logger.Debug().Strs("worksheets", h.worksheetNames).Msg("Opened workbook")
	return h, nil
}

// With opens a handle, runs fn with it and releases the handle on every
// exit path. fn must call Close itself to keep unsaved changes.
func With(path string, fn func(h *Handle) error, opts ...Option) error {
	h, err := Open(path, opts...)
	if err != nil {
		return err
	}
	defer h.Release()
	return fn(h)
}

func (h *Handle) openOrCreate(overwrite bool) (excel.Workbook, error) {
	if !overwrite {
		book, err := h.app.OpenWorkbook(h.path)
		if err == nil {
			return book, nil
		}
		if !errors.Is(err, excel.ErrWorkbookNotFound) {
			return nil, newError(KindWorkbookOpen, h.path, err)
		}
		h.logger.Debug().Msg("Workbook does not exist, creating it")
	} else {
		h.logger.Debug().Msg("Overwriting workbook")
	}

	book, err := h.create()
	if err != nil {
		return nil, newError(KindWorkbookCreate, h.path, err)
	}
	return book, nil
}

// create adds a blank workbook, saves it at the handle path and reopens it
// from there so the bound workbook refers to the file on disk.
func (h *Handle) create() (excel.Workbook, error) {
	added, err := h.app.AddWorkbook()
	if err != nil {
		return nil, err
	}
	if err := added.SaveAs(h.path); err != nil {
		if closeErr := added.Close(false); closeErr != nil {
			h.logger.Warn().Err(closeErr).Msg("Failed to discard unsaved workbook")
		}
		return nil, err
	}
	defer added.Release()
	return h.app.OpenWorkbook(h.path)
}

// Path returns the path the handle was opened with. It never changes,
// even after SaveAs.
func (h *Handle) Path() string {
	return h.path
}

func (h *Handle) GetBackendName() string {
	return h.backend
}

// WorksheetNames returns a copy of the worksheet name snapshot. The
// snapshot is refreshed after every worksheet creation and by Refresh.
func (h *Handle) WorksheetNames() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.worksheetNames)
}

// Refresh re-reads the worksheet names from the host.
func (h *Handle) Refresh() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrHandleClosed
	}
	return h.refresh()
}

func (h *Handle) refresh() error {
	names, err := h.book.SheetNames()
	if err != nil {
		return fmt.Errorf("failed to enumerate worksheets: %w", err)
	}
	h.worksheetNames = names
	return nil
}

// Constants returns the host's automation constants.
func (h *Handle) Constants() excel.Constants {
	return h.app.Constants()
}

// Save saves the workbook back to its path.
func (h *Handle) Save() error {
	return h.SaveAs(h.path)
}

// SaveAs saves the workbook to path. When path differs from Path(), the
// original file keeps its content from the last save and later calls to
// Save still write to Path().
func (h *Handle) SaveAs(path string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.saveAs(path)
}

func (h *Handle) saveAs(path string) error {
	if h.closed {
		return newError(KindSave, path, ErrHandleClosed)
	}
	if err := h.book.SaveAs(path); err != nil {
		return newError(KindSave, path, err)
	}
	h.logger.Debug().Str("target", path).Msg("Saved workbook")
	return nil
}

// Worksheet returns the worksheet called name, creating it after the last
// sheet when it is not in the snapshot. Membership is case-sensitive.
// The caller owns the returned sheet and should Release it.
func (h *Handle) Worksheet(name string) (excel.Sheet, error) {
	sheet, _, err := h.EnsureWorksheet(name)
	return sheet, err
}

// EnsureWorksheet is Worksheet that also reports whether this call created
// the sheet.
func (h *Handle) EnsureWorksheet(name string) (sheet excel.Sheet, created bool, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, false, newSheetError(KindWorksheetFetch, h.path, name, ErrHandleClosed)
	}
	if slices.Contains(h.worksheetNames, name) {
		sheet, err := h.book.Sheet(name)
		if err != nil {
			return nil, false, newSheetError(KindWorksheetFetch, h.path, name, err)
		}
		return sheet, false, nil
	}
	if name == "" {
		return nil, false, newSheetError(KindWorksheetCreate, h.path, name, errors.New("worksheet name is empty"))
	}
	if err := h.createWorksheet(name); err != nil {
		return nil, false, newSheetError(KindWorksheetCreate, h.path, name, err)
	}
	sheet, err = h.book.Sheet(name)
	if err != nil {
		return nil, false, newSheetError(KindWorksheetCreate, h.path, name, err)
	}
	return sheet, true, nil
}

func (h *Handle) createWorksheet(name string) error {
	added, err := h.book.AddSheet()
	if err != nil {
		return err
	}
	defer added.Release()

	if err := added.Rename(name); err != nil {
		// the unnamed sheet stays in the workbook; keep the snapshot honest
		h.refreshQuietly()
		return err
	}
	if err := h.book.SaveAs(h.path); err != nil {
		// the sheet exists in the host even though the file was not written
		h.refreshQuietly()
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	if err := h.refresh(); err != nil {
		return err
	}
	h.logger.Debug().Str("worksheet", name).Msg("Created worksheet")
	return nil
}

func (h *Handle) refreshQuietly() {
	if err := h.refresh(); err != nil {
		h.logger.Warn().Err(err).Msg("Failed to refresh worksheet names")
	}
}

// Close closes the workbook, saving it first when save is true, and quits
// the application. The application is quit even when closing the workbook
// fails. Closing twice returns an error wrapping ErrHandleClosed.
func (h *Handle) Close(save bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return newError(KindClose, h.path, ErrHandleClosed)
	}
	h.closed = true

	var errs []error
	if err := h.book.Close(save); err != nil {
		errs = append(errs, err)
	}
	if err := h.app.Quit(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) != 0 {
		return newError(KindClose, h.path, errors.Join(errs...))
	}
	h.logger.Debug().Bool("save", save).Msg("Closed workbook")
	return nil
}

// Release closes the workbook without saving and quits the application.
// Failures are logged, not returned. It does nothing once the handle is
// closed, so it is safe to defer right after Open.
func (h *Handle) Release() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true

	if err := h.book.Close(false); err != nil {
		h.logger.Warn().Err(err).Msg("Failed to close workbook on release")
	}
	quit(h.app, h.logger)
}

func (h *Handle) String() string {
	return fmt.Sprintf("workbook handle for %q", h.path)
}

func quit(app excel.Application, logger zerolog.Logger) {
	if err := app.Quit(); err != nil {
		logger.Warn().Err(err).Msg("Failed to quit spreadsheet application")
	}
}
