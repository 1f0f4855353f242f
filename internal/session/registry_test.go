package session

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/negokaz/excel-handle/internal/excel"
	"github.com/negokaz/excel-handle/internal/workbook"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r := New(
		workbook.WithDispatcher(excel.NewExcelizeDispatcher()),
		workbook.WithLogger(zerolog.Nop()),
	)
	t.Cleanup(r.ReleaseAll)
	return r
}

func TestRegistry_OpenWorksheetClose(t *testing.T) {
	r := newTestRegistry(t)
	path := filepath.Join(t.TempDir(), "book.xlsx")

	entry, err := r.Open(path)
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, path, entry.Path)
	assert.Equal(t, "excelize", entry.Backend)
	assert.Equal(t, []string{"Sheet1"}, entry.Worksheets)

	info, err := r.Worksheet(entry.ID, "Data")
	require.NoError(t, err)
	assert.Equal(t, SheetInfo{Name: "Data", Index: 2, Created: true, Worksheets: []string{"Sheet1", "Data"}}, info)

	info, err = r.Worksheet(entry.ID, "Data")
	require.NoError(t, err)
	assert.False(t, info.Created)

	got, err := r.Get(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sheet1", "Data"}, got.Worksheets)

	require.NoError(t, r.Close(entry.ID, true))
	assert.Empty(t, r.List())
	_, err = r.Get(entry.ID)
	assert.ErrorIs(t, err, ErrUnknownHandle)
}

func TestRegistry_UnknownHandle(t *testing.T) {
	r := newTestRegistry(t)

	_, err := r.Get("missing")
	assert.ErrorIs(t, err, ErrUnknownHandle)
	_, err = r.Worksheet("missing", "Data")
	assert.ErrorIs(t, err, ErrUnknownHandle)
	assert.ErrorIs(t, r.Save("missing", ""), ErrUnknownHandle)
	assert.ErrorIs(t, r.Close("missing", false), ErrUnknownHandle)
}

func TestRegistry_SaveAs(t *testing.T) {
	r := newTestRegistry(t)
	dir := t.TempDir()

	entry, err := r.Open(filepath.Join(dir, "book.xlsx"))
	require.NoError(t, err)

	require.NoError(t, r.Save(entry.ID, ""))
	require.NoError(t, r.Save(entry.ID, filepath.Join(dir, "copy.xlsx")))
	assert.FileExists(t, filepath.Join(dir, "copy.xlsx"))

	got, err := r.Get(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "book.xlsx"), got.Path)
}

func TestRegistry_ListOrderAndUniqueIDs(t *testing.T) {
	r := newTestRegistry(t)
	dir := t.TempDir()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	r.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	var ids []string
	for _, name := range []string{"a.xlsx", "b.xlsx", "c.xlsx"} {
		entry, err := r.Open(filepath.Join(dir, name))
		require.NoError(t, err)
		ids = append(ids, entry.ID)
	}

	entries := r.List()
	require.Len(t, entries, 3)
	for i, entry := range entries {
		assert.Equal(t, ids[i], entry.ID)
	}
	assert.NotEqual(t, ids[0], ids[1])
	assert.NotEqual(t, ids[1], ids[2])

	r.ReleaseAll()
	assert.Empty(t, r.List())
}

func TestRegistry_OpenFailureRegistersNothing(t *testing.T) {
	r := newTestRegistry(t)
	path := filepath.Join(t.TempDir(), "missing-dir", "book.xlsx")

	_, err := r.Open(path)

	assert.ErrorIs(t, err, workbook.ErrWorkbookCreateFailure)
	assert.Empty(t, r.List())
}

func TestRegistry_ConcurrentWorksheetCreatedOnce(t *testing.T) {
	r := newTestRegistry(t)
	entry, err := r.Open(filepath.Join(t.TempDir(), "book.xlsx"))
	require.NoError(t, err)

	const workers = 8
	infos := make([]SheetInfo, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			infos[i], errs[i] = r.Worksheet(entry.ID, "Data")
		}(i)
	}
	wg.Wait()

	created := 0
	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "Data", infos[i].Name)
		if infos[i].Created {
			created++
		}
	}
	assert.Equal(t, 1, created)

	got, err := r.Get(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sheet1", "Data"}, got.Worksheets)
}
