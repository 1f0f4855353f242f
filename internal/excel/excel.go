package excel

import (
	"errors"
)

// ErrWorkbookNotFound is returned (wrapped) by Application.OpenWorkbook
// when the host reports that the workbook file does not exist.
var ErrWorkbookNotFound = errors.New("workbook not found")

// ErrCallTimeout is returned when a call to the host does not complete
// within the configured call timeout.
var ErrCallTimeout = errors.New("host call timed out")

// Dispatcher acquires a live connection to a spreadsheet application.
type Dispatcher interface {
	// GetBackendName returns the backend used to reach the host.
	GetBackendName() string
	// Dispatch starts (or connects to) a fresh application instance.
	Dispatch() (Application, error)
}

// Application is a remote spreadsheet application instance.
type Application interface {
	// SetBackground hides the UI and alert dialogs when background is true.
	SetBackground(background bool) error
	// OpenWorkbook opens the workbook stored at absolutePath.
	OpenWorkbook(absolutePath string) (Workbook, error)
	// AddWorkbook creates a new blank workbook that has not been saved yet.
	AddWorkbook() (Workbook, error)
	// Constants returns the automation constants known to the host.
	Constants() Constants
	// Quit terminates the application and releases its resources.
	Quit() error
	// Release releases the resources held for the application without quitting it.
	Release()
}

// Workbook is a workbook opened in an Application.
type Workbook interface {
	// SheetNames returns the sheet names in host order.
	SheetNames() ([]string, error)
	// Sheet fetches the sheet with the given name.
	Sheet(name string) (Sheet, error)
	// AddSheet adds a new sheet after the last existing sheet.
	AddSheet() (Sheet, error)
	// SaveAs saves the workbook to absolutePath.
	SaveAs(absolutePath string) error
	// Close closes the workbook, saving it first when save is true.
	Close(save bool) error
	// Release drops the reference without closing the workbook. It is safe
	// to call after Close.
	Release()
}

// Sheet is a live reference to a worksheet.
type Sheet interface {
	// Name returns the name of the sheet.
	Name() (string, error)
	// Index returns the 1-based position of the sheet in its workbook.
	Index() (int, error)
	// Rename renames the sheet.
	Rename(name string) error
	// Release releases the sheet resources.
	Release()
}
