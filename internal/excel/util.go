package excel

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// FileIsNotWritable reports whether an existing file cannot be opened for
// writing. A missing file is writable.
func FileIsNotWritable(absolutePath string) bool {
	f, err := os.OpenFile(filepath.Clean(absolutePath), os.O_WRONLY, 0)
	if err != nil {
		return !errors.Is(err, fs.ErrNotExist)
	}
	defer f.Close()
	return false
}
