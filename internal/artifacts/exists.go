package artifacts

import (
	"fmt"
	"os"
)

// Oracle answers whether an artifact exists. Only existence matters; content
// is never inspected.
type Oracle interface {
	Exists(path string) bool
}

// FS is the filesystem-backed Oracle.
type FS struct{}

// Exists reports whether path is present on disk.
func (FS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// MissingFrameError reports the first gap in a frame sequence.
type MissingFrameError struct {
	Dir   string
	Index int
	Total int
}

func (e *MissingFrameError) Error() string {
	if e.Index == 0 {
		return fmt.Sprintf("no frames in %s (expected %d)", e.Dir, e.Total)
	}
	return fmt.Sprintf("frame %s missing in %s (have %d of %d)", FrameName(e.Index), e.Dir, e.Index, e.Total)
}

// VerifyFrameSequence checks that frames 0..count-1 all exist in the format's
// frames directory.
func VerifyFrameSequence(oracle Oracle, layout Layout, key string, count int) error {
	if oracle == nil {
		oracle = FS{}
	}
	for i := 0; i < count; i++ {
		if !oracle.Exists(layout.FramePath(key, i)) {
			return &MissingFrameError{Dir: layout.FramesDir(key), Index: i, Total: count}
		}
	}
	return nil
}
