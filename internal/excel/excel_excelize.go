package excel

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"
)

var errApplicationQuit = errors.New("application has quit")

// ExcelizeDispatcher emulates the spreadsheet application on top of
// excelize. It needs no running host and works on every platform.
type ExcelizeDispatcher struct{}

func NewExcelizeDispatcher() *ExcelizeDispatcher {
	return &ExcelizeDispatcher{}
}

func (d *ExcelizeDispatcher) GetBackendName() string {
	return "excelize"
}

func (d *ExcelizeDispatcher) Dispatch() (Application, error) {
	return &ExcelizeApplication{}, nil
}

type ExcelizeApplication struct {
	mu        sync.Mutex
	workbooks []*ExcelizeWorkbook
	quit      bool
}

// SetBackground is a no-op: excelize has no UI to hide.
func (a *ExcelizeApplication) SetBackground(background bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.quit {
		return errApplicationQuit
	}
	return nil
}

// OpenWorkbook returns the already open workbook when absolutePath is open
// in this application, the same way Excel does after Add and SaveAs.
func (a *ExcelizeApplication) OpenWorkbook(absolutePath string) (Workbook, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.quit {
		return nil, errApplicationQuit
	}

	cleanPath := filepath.Clean(absolutePath)
	for _, workbook := range a.workbooks {
		if workbook.file.Path != "" && samePath(workbook.file.Path, cleanPath) {
			return workbook, nil
		}
	}

	file, err := excelize.OpenFile(cleanPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrWorkbookNotFound, absolutePath)
		}
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	file.Path = cleanPath
	workbook := &ExcelizeWorkbook{application: a, file: file}
	a.workbooks = append(a.workbooks, workbook)
	return workbook, nil
}

func (a *ExcelizeApplication) AddWorkbook() (Workbook, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.quit {
		return nil, errApplicationQuit
	}
	workbook := &ExcelizeWorkbook{application: a, file: excelize.NewFile()}
	a.workbooks = append(a.workbooks, workbook)
	return workbook, nil
}

func (a *ExcelizeApplication) Constants() Constants {
	return DefaultConstants()
}

// Quit closes every open workbook without saving.
func (a *ExcelizeApplication) Quit() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.quit {
		return errApplicationQuit
	}
	a.quit = true
	var errs []error
	for _, workbook := range a.workbooks {
		workbook.closed = true
		if err := workbook.file.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.workbooks = nil
	return errors.Join(errs...)
}

func (a *ExcelizeApplication) Release() {
	_ = a.Quit()
}

func (a *ExcelizeApplication) forget(workbook *ExcelizeWorkbook) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i, w := range a.workbooks {
		if w == workbook {
			a.workbooks = append(a.workbooks[:i], a.workbooks[i+1:]...)
			return
		}
	}
}

type ExcelizeWorkbook struct {
	application *ExcelizeApplication
	file        *excelize.File
	closed      bool
}

func (w *ExcelizeWorkbook) SheetNames() ([]string, error) {
	if w.closed {
		return nil, fmt.Errorf("workbook is closed")
	}
	return w.file.GetSheetList(), nil
}

func (w *ExcelizeWorkbook) Sheet(name string) (Sheet, error) {
	if w.closed {
		return nil, fmt.Errorf("workbook is closed")
	}
	// Sheet names are case-insensitive in Excel
	for _, sheetName := range w.file.GetSheetList() {
		if strings.EqualFold(sheetName, name) {
			return &ExcelizeSheet{workbook: w, sheetName: sheetName}, nil
		}
	}
	return nil, fmt.Errorf("sheet not found: %s", name)
}

func (w *ExcelizeWorkbook) AddSheet() (Sheet, error) {
	if w.closed {
		return nil, fmt.Errorf("workbook is closed")
	}
	sheetName := nextDefaultSheetName(w.file.GetSheetList())
	if _, err := w.file.NewSheet(sheetName); err != nil {
		return nil, fmt.Errorf("failed to add sheet: %w", err)
	}
	return &ExcelizeSheet{workbook: w, sheetName: sheetName}, nil
}

// SaveAs writes the workbook to a temporary file next to absolutePath and
// renames it into place, so a failed save leaves the target untouched.
// Excelize's SaveAs restricts the file path length to 207 characters,
// which is why the file is written through Write instead.
// https://github.com/qax-os/excelize/blob/v2.9.0/file.go#L71-L73
func (w *ExcelizeWorkbook) SaveAs(absolutePath string) error {
	if w.closed {
		return fmt.Errorf("workbook is closed")
	}
	cleanPath := filepath.Clean(absolutePath)
	if FileIsNotWritable(cleanPath) {
		return fmt.Errorf("failed to save workbook: %s is read-only", cleanPath)
	}
	tmp, err := os.CreateTemp(filepath.Dir(cleanPath), ".~"+filepath.Base(cleanPath)+".*")
	if err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := w.file.Write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	if err := os.Rename(tmp.Name(), cleanPath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	w.file.Path = cleanPath
	return nil
}

// Release is a no-op: OpenWorkbook hands out the same workbook that
// AddWorkbook created, so there is no separate reference to drop.
func (w *ExcelizeWorkbook) Release() {}

func (w *ExcelizeWorkbook) Close(save bool) error {
	if w.closed {
		return fmt.Errorf("workbook is closed")
	}
	if save {
		if w.file.Path == "" {
			return fmt.Errorf("failed to close workbook: workbook has never been saved")
		}
		if err := w.SaveAs(w.file.Path); err != nil {
			return err
		}
	}
	w.closed = true
	w.application.forget(w)
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("failed to close workbook: %w", err)
	}
	return nil
}

type ExcelizeSheet struct {
	workbook  *ExcelizeWorkbook
	sheetName string
}

func (s *ExcelizeSheet) Name() (string, error) {
	return s.sheetName, nil
}

func (s *ExcelizeSheet) Index() (int, error) {
	for i, sheetName := range s.workbook.file.GetSheetList() {
		if sheetName == s.sheetName {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("sheet not found: %s", s.sheetName)
}

func (s *ExcelizeSheet) Rename(name string) error {
	if name == s.sheetName {
		return nil
	}
	for _, sheetName := range s.workbook.file.GetSheetList() {
		if sheetName != s.sheetName && strings.EqualFold(sheetName, name) {
			return fmt.Errorf("failed to rename sheet: name already taken: %s", name)
		}
	}
	if err := s.workbook.file.SetSheetName(s.sheetName, name); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	s.sheetName = name
	return nil
}

func (s *ExcelizeSheet) Release() {
	// No resources to release in excelize
}

// nextDefaultSheetName returns the first free "SheetN" name, starting
// after the current sheet count like Excel does.
func nextDefaultSheetName(existing []string) string {
	for n := len(existing) + 1; ; n++ {
		candidate := fmt.Sprintf("Sheet%d", n)
		taken := false
		for _, sheetName := range existing {
			if strings.EqualFold(sheetName, candidate) {
				taken = true
				break
			}
		}
		if !taken {
			return candidate
		}
	}
}

func samePath(a, b string) bool {
	return normalizePath(a) == normalizePath(b)
}

func normalizePath(path string) string {
	// Normalize the volume name to uppercase
	vol := filepath.VolumeName(path)
	if vol == "" {
		return filepath.Clean(path)
	}
	rest := path[len(vol):]
	return filepath.Clean(strings.ToUpper(vol) + rest)
}
