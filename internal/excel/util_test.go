package excel

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileIsNotWritable(t *testing.T) {
	dir := t.TempDir()

	writable := filepath.Join(dir, "writable.xlsx")
	if err := os.WriteFile(writable, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if FileIsNotWritable(writable) {
		t.Errorf("FileIsNotWritable(%q) = true, want false", writable)
	}

	missing := filepath.Join(dir, "missing.xlsx")
	if FileIsNotWritable(missing) {
		t.Errorf("FileIsNotWritable(%q) = true, want false", missing)
	}

	if FileIsNotWritable(dir) != true {
		t.Errorf("FileIsNotWritable(%q) = false, want true for a directory", dir)
	}
}

func TestExcelizeSaveAsReadOnlyTarget(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can write read-only files")
	}
	dir := t.TempDir()
	target := filepath.Join(dir, "locked.xlsx")
	if err := os.WriteFile(target, []byte("x"), 0o444); err != nil {
		t.Fatal(err)
	}

	app, err := NewExcelizeDispatcher().Dispatch()
	if err != nil {
		t.Fatal(err)
	}
	defer app.Release()
	book, err := app.AddWorkbook()
	if err != nil {
		t.Fatal(err)
	}

	if err := book.SaveAs(target); err == nil {
		t.Error("SaveAs to a read-only file succeeded")
	}
}
