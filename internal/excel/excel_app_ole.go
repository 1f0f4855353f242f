package excel

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
)

// dispEException is DISP_E_EXCEPTION (-2147352567), the code Excel
// reports through IDispatch::Invoke for any failed Workbooks.Open.
const dispEException = 0x80020009

// OleDispatcher dispatches Excel.Application through OLE automation.
// Every dispatch launches a new Excel instance.
type OleDispatcher struct {
	callTimeout time.Duration
}

// NewOleDispatcher creates an OleDispatcher. A positive callTimeout bounds
// each automation call; zero waits forever.
func NewOleDispatcher(callTimeout time.Duration) *OleDispatcher {
	return &OleDispatcher{callTimeout: callTimeout}
}

func (d *OleDispatcher) GetBackendName() string {
	return "ole"
}

func (d *OleDispatcher) Dispatch() (Application, error) {
	apt, err := newApartment(d.callTimeout)
	if err != nil {
		return nil, err
	}

	var application *ole.IDispatch
	err = apt.call(func() error {
		unknown, err := oleutil.CreateObject("Excel.Application")
		if err != nil {
			return fmt.Errorf("failed to launch Excel application: %w", err)
		}
		defer unknown.Release()
		excel, err := unknown.QueryInterface(ole.IID_IDispatch)
		if err != nil {
			return fmt.Errorf("failed to query Excel interface: %w", err)
		}
		application = excel
		return nil
	})
	if err != nil {
		apt.close()
		return nil, err
	}
	return &OleApplication{apt: apt, application: application}, nil
}

type OleApplication struct {
	apt         *apartment
	application *ole.IDispatch
}

func (a *OleApplication) SetBackground(background bool) error {
	return a.apt.call(func() error {
		if _, err := oleutil.PutProperty(a.application, "Visible", !background); err != nil {
			return fmt.Errorf("failed to set Visible: %w", err)
		}
		if _, err := oleutil.PutProperty(a.application, "DisplayAlerts", !background); err != nil {
			return fmt.Errorf("failed to set DisplayAlerts: %w", err)
		}
		return nil
	})
}

func (a *OleApplication) OpenWorkbook(absolutePath string) (Workbook, error) {
	var workbook *ole.IDispatch
	err := a.apt.call(func() error {
		workbooksProp, err := oleutil.GetProperty(a.application, "Workbooks")
		if err != nil {
			return fmt.Errorf("failed to get Workbooks: %w", err)
		}
		workbooks := workbooksProp.ToIDispatch()
		defer workbooks.Release()

		wbResult, err := oleutil.CallMethod(workbooks, "Open", absolutePath)
		if err != nil {
			return translateOpenError(absolutePath, err)
		}
		workbook = wbResult.ToIDispatch()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &OleWorkbook{apt: a.apt, workbook: workbook}, nil
}

func (a *OleApplication) AddWorkbook() (Workbook, error) {
	var workbook *ole.IDispatch
	err := a.apt.call(func() error {
		workbooksProp, err := oleutil.GetProperty(a.application, "Workbooks")
		if err != nil {
			return fmt.Errorf("failed to get Workbooks: %w", err)
		}
		workbooks := workbooksProp.ToIDispatch()
		defer workbooks.Release()

		wbResult, err := oleutil.CallMethod(workbooks, "Add")
		if err != nil {
			return fmt.Errorf("failed to create workbook: %w", err)
		}
		workbook = wbResult.ToIDispatch()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &OleWorkbook{apt: a.apt, workbook: workbook}, nil
}

func (a *OleApplication) Constants() Constants {
	return DefaultConstants()
}

func (a *OleApplication) Quit() error {
	err := a.apt.call(func() error {
		if _, err := oleutil.CallMethod(a.application, "Quit"); err != nil {
			return fmt.Errorf("failed to quit Excel: %w", err)
		}
		return nil
	})
	a.Release()
	return err
}

func (a *OleApplication) Release() {
	_ = a.apt.call(func() error {
		if a.application != nil {
			a.application.Release()
			a.application = nil
		}
		return nil
	})
	a.apt.close()
}

// translateOpenError maps a failed Workbooks.Open to ErrWorkbookNotFound.
// Excel raises the same DISP_E_EXCEPTION for missing, locked and corrupt
// files, so the code alone is not enough: the file must also be absent.
func translateOpenError(absolutePath string, err error) error {
	if isWorkbookNotFound(absolutePath, err) {
		return fmt.Errorf("%w: %s: %v", ErrWorkbookNotFound, absolutePath, err)
	}
	return fmt.Errorf("failed to open workbook: %w", err)
}

func isWorkbookNotFound(absolutePath string, err error) bool {
	var oleErr *ole.OleError
	if !errors.As(err, &oleErr) || uint32(oleErr.Code()) != dispEException {
		return false
	}
	_, statErr := os.Stat(absolutePath)
	return errors.Is(statErr, fs.ErrNotExist)
}
