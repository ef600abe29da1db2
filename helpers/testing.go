package helpers

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type Fataler interface {
	Fatal(...interface{})
}

func RandUnix() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// TestTouchFiles creates empty files under dir, fails test on error.
func TestTouchFiles(t testing.TB, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, nil, 0644); err != nil {
			t.Fatalf("touch path=%s err=%v", path, err)
		}
	}
}
