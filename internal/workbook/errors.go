package workbook

import (
	"errors"
	"fmt"
)

// Kind classifies the failures a Handle can report.
type Kind int

const (
	KindDispatch Kind = iota + 1
	KindWorkbookOpen
	KindWorkbookCreate
	KindSave
	KindWorksheetCreate
	KindWorksheetFetch
	KindClose
)

func (k Kind) String() string {
	switch k {
	case KindDispatch:
		return "DispatchFailure"
	case KindWorkbookOpen:
		return "WorkbookOpenFailure"
	case KindWorkbookCreate:
		return "WorkbookCreateFailure"
	case KindSave:
		return "SaveFailure"
	case KindWorksheetCreate:
		return "WorksheetCreateFailure"
	case KindWorksheetFetch:
		return "WorksheetFetchFailure"
	case KindClose:
		return "CloseFailure"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Sentinels for errors.Is. An *Error matches the sentinel of its Kind.
var (
	ErrDispatchFailure        = &Error{Kind: KindDispatch}
	ErrWorkbookOpenFailure    = &Error{Kind: KindWorkbookOpen}
	ErrWorkbookCreateFailure  = &Error{Kind: KindWorkbookCreate}
	ErrSaveFailure            = &Error{Kind: KindSave}
	ErrWorksheetCreateFailure = &Error{Kind: KindWorksheetCreate}
	ErrWorksheetFetchFailure  = &Error{Kind: KindWorksheetFetch}
	ErrCloseFailure           = &Error{Kind: KindClose}
)

// ErrHandleClosed is wrapped by every operation attempted on a handle
// that has already been closed or released.
var ErrHandleClosed = errors.New("workbook handle is closed")

// Error is the single error type returned at the Handle boundary.
type Error struct {
	Kind  Kind
	Path  string
	Sheet string // only set for worksheet failures
	Err   error
}

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case KindDispatch:
		msg = "spreadsheet application would not respond, it could not be dispatched"
	case KindWorkbookOpen:
		msg = fmt.Sprintf("workbook %q could not be opened", e.Path)
	case KindWorkbookCreate:
		msg = fmt.Sprintf("workbook %q could not be created or opened", e.Path)
	case KindSave:
		msg = fmt.Sprintf("changes on workbook %q could not be saved", e.Path)
	case KindWorksheetCreate:
		msg = fmt.Sprintf("worksheet %q not found on workbook %q and creation attempt failed", e.Sheet, e.Path)
	case KindWorksheetFetch:
		msg = fmt.Sprintf("worksheet %q could not be fetched from workbook %q", e.Sheet, e.Path)
	case KindClose:
		msg = fmt.Sprintf("workbook %q could not be closed", e.Path)
	default:
		msg = e.Kind.String()
	}
	if e.Err == nil {
		return msg
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Err == nil && t.Path == "" && t.Sheet == "" && t.Kind == e.Kind
}

func newError(kind Kind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}

func newSheetError(kind Kind, path, sheet string, err error) *Error {
	return &Error{Kind: kind, Path: path, Sheet: sheet, Err: err}
}
