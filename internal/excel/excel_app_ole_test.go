package excel

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/go-ole/go-ole"
)

func TestIsWorkbookNotFound(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "existing.xlsx")
	if err := os.WriteFile(existing, []byte{}, 0o644); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(dir, "missing.xlsx")

	tests := []struct {
		name string
		path string
		err  error
		want bool
	}{
		{
			name: "exception on missing file",
			path: missing,
			err:  ole.NewError(dispEException),
			want: true,
		},
		{
			name: "wrapped exception on missing file",
			path: missing,
			err:  fmt.Errorf("open: %w", ole.NewError(dispEException)),
			want: true,
		},
		{
			name: "exception on existing file",
			path: existing,
			err:  ole.NewError(dispEException),
			want: false,
		},
		{
			name: "other ole error on missing file",
			path: missing,
			err:  ole.NewError(ole.E_ACCESSDENIED),
			want: false,
		},
		{
			name: "non ole error",
			path: missing,
			err:  errors.New("boom"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isWorkbookNotFound(tt.path, tt.err); got != tt.want {
				t.Errorf("isWorkbookNotFound(%q, %v) = %v, want %v", tt.path, tt.err, got, tt.want)
			}
		})
	}
}

func TestTranslateOpenError(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.xlsx")

	err := translateOpenError(missing, ole.NewError(dispEException))
	if !errors.Is(err, ErrWorkbookNotFound) {
		t.Errorf("translateOpenError() = %v, want ErrWorkbookNotFound", err)
	}

	err = translateOpenError(missing, ole.NewError(ole.E_FAIL))
	if errors.Is(err, ErrWorkbookNotFound) {
		t.Errorf("translateOpenError() = %v, want an error other than ErrWorkbookNotFound", err)
	}
	var oleErr *ole.OleError
	if !errors.As(err, &oleErr) {
		t.Errorf("translateOpenError() = %v, want the ole error to be wrapped", err)
	}
}

func TestOleDispatcher_UnavailableOutsideWindows(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("OLE automation is available on Windows")
	}
	if _, err := NewOleDispatcher(time.Second).Dispatch(); err == nil {
		t.Error("Dispatch() expected error outside Windows, got nil")
	}
}

func TestApartment_Call(t *testing.T) {
	if runtime.GOOS != "windows" {
		t.Skip("COM apartments require Windows")
	}
	apt, err := newApartment(50 * time.Millisecond)
	if err != nil {
		t.Fatalf("newApartment() unexpected error: %v", err)
	}
	defer apt.close()

	want := errors.New("boom")
	if err := apt.call(func() error { return want }); !errors.Is(err, want) {
		t.Errorf("call() = %v, want %v", err, want)
	}
	if err := apt.call(func() error { panic("bad") }); err == nil {
		t.Error("call() with panicking func expected error, got nil")
	}
	release := make(chan struct{})
	defer close(release)
	if err := apt.call(func() error { <-release; return nil }); !errors.Is(err, ErrCallTimeout) {
		t.Errorf("call() = %v, want ErrCallTimeout", err)
	}
}
