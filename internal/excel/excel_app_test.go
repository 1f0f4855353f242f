package excel

import (
	"runtime"
	"testing"
)

func TestNewDispatcher(t *testing.T) {
	autoBackend := "excelize"
	if runtime.GOOS == "windows" {
		autoBackend = "ole"
	}

	tests := []struct {
		name      string
		backend   string
		want      string
		wantError bool
	}{
		{name: "empty selects auto", backend: "", want: autoBackend},
		{name: "auto", backend: "auto", want: autoBackend},
		{name: "ole", backend: "ole", want: "ole"},
		{name: "excelize", backend: "excelize", want: "excelize"},
		{name: "case and spaces", backend: " Excelize ", want: "excelize"},
		{name: "unknown", backend: "libreoffice", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDispatcher(tt.backend, 0)
			if tt.wantError {
				if err == nil {
					t.Errorf("NewDispatcher(%q) expected error, got nil", tt.backend)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewDispatcher(%q) unexpected error: %v", tt.backend, err)
			}
			if got := d.GetBackendName(); got != tt.want {
				t.Errorf("NewDispatcher(%q).GetBackendName() = %q, want %q", tt.backend, got, tt.want)
			}
		})
	}
}

func TestConstants(t *testing.T) {
	c := DefaultConstants()

	tests := []struct {
		name   string
		want   int32
		wantOk bool
	}{
		{name: "xlOpenXMLWorkbook", want: 51, wantOk: true},
		{name: "xlCenter", want: -4108, wantOk: true},
		{name: "xlMaximized", want: -4137, wantOk: true},
		{name: "xlUnknownConstant", wantOk: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.Lookup(tt.name)
			if ok != tt.wantOk || got != tt.want {
				t.Errorf("Lookup(%q) = (%d, %v), want (%d, %v)", tt.name, got, ok, tt.want, tt.wantOk)
			}
		})
	}

	names := c.Names()
	if len(names) != c.Len() {
		t.Fatalf("len(Names()) = %d, want %d", len(names), c.Len())
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("Names() not sorted at %d: %q >= %q", i, names[i-1], names[i])
		}
	}
}
