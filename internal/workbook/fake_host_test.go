package workbook

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/negokaz/excel-handle/internal/excel"
)

var errFake = errors.New("fake host failure")

// fakeHost is an in-memory host whose failures can be switched on per call.
// files maps a path to the sheet names saved there.
type fakeHost struct {
	files map[string][]string

	dispatchErr    error
	backgroundErr  error
	openErr        error
	addWorkbookErr error
	saveAsErr      error
	addSheetErr    error
	renameErr      error
	closeErr       error
	quitErr        error

	calls      []string
	background *bool
	quitCount  int
}

func newFakeHost() *fakeHost {
	return &fakeHost{files: map[string][]string{}}
}

func (f *fakeHost) GetBackendName() string {
	return "fake"
}

func (f *fakeHost) Dispatch() (excel.Application, error) {
	f.calls = append(f.calls, "dispatch")
	if f.dispatchErr != nil {
		return nil, f.dispatchErr
	}
	return &fakeApp{host: f}, nil
}

func (f *fakeHost) countCalls(prefix string) int {
	n := 0
	for _, call := range f.calls {
		if strings.HasPrefix(call, prefix) {
			n++
		}
	}
	return n
}

type fakeApp struct {
	host *fakeHost
}

func (a *fakeApp) SetBackground(background bool) error {
	a.host.calls = append(a.host.calls, fmt.Sprintf("background %v", background))
	a.host.background = &background
	return a.host.backgroundErr
}

func (a *fakeApp) OpenWorkbook(absolutePath string) (excel.Workbook, error) {
	a.host.calls = append(a.host.calls, "open "+absolutePath)
	if a.host.openErr != nil {
		return nil, a.host.openErr
	}
	sheets, ok := a.host.files[absolutePath]
	if !ok {
		return nil, fmt.Errorf("%w: %s", excel.ErrWorkbookNotFound, absolutePath)
	}
	return &fakeBook{host: a.host, path: absolutePath, sheets: slices.Clone(sheets)}, nil
}

func (a *fakeApp) AddWorkbook() (excel.Workbook, error) {
	a.host.calls = append(a.host.calls, "add")
	if a.host.addWorkbookErr != nil {
		return nil, a.host.addWorkbookErr
	}
	return &fakeBook{host: a.host, sheets: []string{"Sheet1"}}, nil
}

func (a *fakeApp) Constants() excel.Constants {
	return excel.DefaultConstants()
}

func (a *fakeApp) Quit() error {
	a.host.calls = append(a.host.calls, "quit")
	a.host.quitCount++
	return a.host.quitErr
}

func (a *fakeApp) Release() {}

type fakeBook struct {
	host     *fakeHost
	path     string
	sheets   []string
	released bool
}

func (b *fakeBook) SheetNames() ([]string, error) {
	return slices.Clone(b.sheets), nil
}

func (b *fakeBook) Sheet(name string) (excel.Sheet, error) {
	b.host.calls = append(b.host.calls, "sheet "+name)
	for _, sheetName := range b.sheets {
		if strings.EqualFold(sheetName, name) {
			return &fakeSheet{book: b, name: sheetName}, nil
		}
	}
	return nil, fmt.Errorf("sheet not found: %s", name)
}

func (b *fakeBook) AddSheet() (excel.Sheet, error) {
	b.host.calls = append(b.host.calls, "addsheet")
	if b.host.addSheetErr != nil {
		return nil, b.host.addSheetErr
	}
	name := fmt.Sprintf("Sheet%d", len(b.sheets)+1)
	for slices.ContainsFunc(b.sheets, func(s string) bool { return strings.EqualFold(s, name) }) {
		name += "_"
	}
	b.sheets = append(b.sheets, name)
	return &fakeSheet{book: b, name: name}, nil
}

func (b *fakeBook) SaveAs(absolutePath string) error {
	b.host.calls = append(b.host.calls, "saveas "+absolutePath)
	if b.host.saveAsErr != nil {
		return b.host.saveAsErr
	}
	b.host.files[absolutePath] = slices.Clone(b.sheets)
	b.path = absolutePath
	return nil
}

func (b *fakeBook) Close(save bool) error {
	b.host.calls = append(b.host.calls, fmt.Sprintf("close %v", save))
	if b.host.closeErr != nil {
		return b.host.closeErr
	}
	if save {
		b.host.files[b.path] = slices.Clone(b.sheets)
	}
	return nil
}

func (b *fakeBook) Release() {
	b.host.calls = append(b.host.calls, "release")
	b.released = true
}

type fakeSheet struct {
	book *fakeBook
	name string
}

func (s *fakeSheet) Name() (string, error) {
	return s.name, nil
}

func (s *fakeSheet) Index() (int, error) {
	i := slices.Index(s.book.sheets, s.name)
	if i < 0 {
		return 0, fmt.Errorf("sheet not found: %s", s.name)
	}
	return i + 1, nil
}

func (s *fakeSheet) Rename(name string) error {
	if s.book.host.renameErr != nil {
		return s.book.host.renameErr
	}
	for _, sheetName := range s.book.sheets {
		if sheetName != s.name && strings.EqualFold(sheetName, name) {
			return fmt.Errorf("name already taken: %s", name)
		}
	}
	i := slices.Index(s.book.sheets, s.name)
	s.book.sheets[i] = name
	s.name = name
	return nil
}

func (s *fakeSheet) Release() {}
