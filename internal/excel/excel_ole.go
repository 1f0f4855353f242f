package excel

import (
	"fmt"

	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
)

type OleWorkbook struct {
	apt      *apartment
	workbook *ole.IDispatch
}

type OleSheet struct {
	apt   *apartment
	sheet *ole.IDispatch
}

func (w *OleWorkbook) SheetNames() ([]string, error) {
	var names []string
	err := w.apt.call(func() error {
		sheetsProp, err := oleutil.GetProperty(w.workbook, "Sheets")
		if err != nil {
			return fmt.Errorf("failed to get Sheets: %w", err)
		}
		sheets := sheetsProp.ToIDispatch()
		defer sheets.Release()

		countProp, err := oleutil.GetProperty(sheets, "Count")
		if err != nil {
			return fmt.Errorf("failed to get Sheets.Count: %w", err)
		}
		count := int(countProp.Val)

		result := make([]string, 0, count)
		for i := 1; i <= count; i++ {
			sheetProp, err := oleutil.GetProperty(sheets, "Item", i)
			if err != nil {
				return fmt.Errorf("failed to get sheet %d: %w", i, err)
			}
			sheet := sheetProp.ToIDispatch()
			nameProp, err := oleutil.GetProperty(sheet, "Name")
			sheet.Release()
			if err != nil {
				return fmt.Errorf("failed to get name of sheet %d: %w", i, err)
			}
			result = append(result, nameProp.ToString())
		}
		names = result
		return nil
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

func (w *OleWorkbook) Sheet(name string) (Sheet, error) {
	var sheet *ole.IDispatch
	err := w.apt.call(func() error {
		sheetsProp, err := oleutil.GetProperty(w.workbook, "Sheets")
		if err != nil {
			return fmt.Errorf("failed to get Sheets: %w", err)
		}
		sheets := sheetsProp.ToIDispatch()
		defer sheets.Release()

		sheetProp, err := oleutil.GetProperty(sheets, "Item", name)
		if err != nil {
			return fmt.Errorf("sheet not found: %s: %w", name, err)
		}
		sheet = sheetProp.ToIDispatch()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &OleSheet{apt: w.apt, sheet: sheet}, nil
}

func (w *OleWorkbook) AddSheet() (Sheet, error) {
	var sheet *ole.IDispatch
	err := w.apt.call(func() error {
		sheetsProp, err := oleutil.GetProperty(w.workbook, "Sheets")
		if err != nil {
			return fmt.Errorf("failed to get Sheets: %w", err)
		}
		sheets := sheetsProp.ToIDispatch()
		defer sheets.Release()

		countProp, err := oleutil.GetProperty(sheets, "Count")
		if err != nil {
			return fmt.Errorf("failed to get Sheets.Count: %w", err)
		}
		lastProp, err := oleutil.GetProperty(sheets, "Item", int(countProp.Val))
		if err != nil {
			return fmt.Errorf("failed to get last sheet: %w", err)
		}
		last := lastProp.ToIDispatch()
		defer last.Release()

		// Sheets.Add(Before, After): a nil Before is passed as a missing argument
		added, err := oleutil.CallMethod(sheets, "Add", nil, last)
		if err != nil {
			return fmt.Errorf("failed to add sheet: %w", err)
		}
		sheet = added.ToIDispatch()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &OleSheet{apt: w.apt, sheet: sheet}, nil
}

func (w *OleWorkbook) SaveAs(absolutePath string) error {
	return w.apt.call(func() error {
		if _, err := oleutil.CallMethod(w.workbook, "SaveAs", absolutePath); err != nil {
			return fmt.Errorf("failed to save workbook: %w", err)
		}
		return nil
	})
}

func (w *OleWorkbook) Close(save bool) error {
	return w.apt.call(func() error {
		if w.workbook == nil {
			return fmt.Errorf("failed to close workbook: workbook is released")
		}
		_, err := oleutil.CallMethod(w.workbook, "Close", save)
		w.workbook.Release()
		w.workbook = nil
		if err != nil {
			return fmt.Errorf("failed to close workbook: %w", err)
		}
		return nil
	})
}

// Release drops this reference to the workbook. The workbook stays open.
func (w *OleWorkbook) Release() {
	_ = w.apt.call(func() error {
		if w.workbook != nil {
			w.workbook.Release()
			w.workbook = nil
		}
		return nil
	})
}

func (s *OleSheet) Name() (string, error) {
	var name string
	err := s.apt.call(func() error {
		nameProp, err := oleutil.GetProperty(s.sheet, "Name")
		if err != nil {
			return fmt.Errorf("failed to get sheet name: %w", err)
		}
		name = nameProp.ToString()
		return nil
	})
	if err != nil {
		return "", err
	}
	return name, nil
}

func (s *OleSheet) Index() (int, error) {
	var index int
	err := s.apt.call(func() error {
		indexProp, err := oleutil.GetProperty(s.sheet, "Index")
		if err != nil {
			return fmt.Errorf("failed to get sheet index: %w", err)
		}
		index = int(indexProp.Val)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return index, nil
}

func (s *OleSheet) Rename(name string) error {
	return s.apt.call(func() error {
		if _, err := oleutil.PutProperty(s.sheet, "Name", name); err != nil {
			return fmt.Errorf("failed to rename sheet to %s: %w", name, err)
		}
		return nil
	})
}

func (s *OleSheet) Release() {
	_ = s.apt.call(func() error {
		s.sheet.Release()
		return nil
	})
}
