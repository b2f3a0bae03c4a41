package stalecache

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	root := t.TempDir()
	s, err := Open(root, "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, root
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestStaleFirstObservationIsStale(t *testing.T) {
	s, root := openTestStore(t)
	f := filepath.Join(root, "a.txt")
	writeFile(t, f, "one")

	stale, err := s.Stale([]string{f})
	if err != nil {
		t.Fatalf("Stale: %v", err)
	}
	if len(stale) != 1 || stale[0] != f {
		t.Errorf("stale = %v, want [%s]", stale, f)
	}
}

func TestStaleUnchangedIsNotStale(t *testing.T) {
	s, root := openTestStore(t)
	f := filepath.Join(root, "a.txt")
	writeFile(t, f, "one")

	if _, err := s.Stale([]string{f}); err != nil {
		t.Fatalf("Stale: %v", err)
	}
	stale, err := s.Stale([]string{f})
	if err != nil {
		t.Fatalf("Stale: %v", err)
	}
	if len(stale) != 0 {
		t.Errorf("stale = %v, want none", stale)
	}
}

func TestStaleChangedSizeIsStale(t *testing.T) {
	s, root := openTestStore(t)
	f := filepath.Join(root, "a.txt")
	writeFile(t, f, "one")
	if _, err := s.Stale([]string{f}); err != nil {
		t.Fatalf("Stale: %v", err)
	}

	time.Sleep(2 * time.Millisecond)
	writeFile(t, f, "a much longer second content")

	stale, err := s.Stale([]string{f})
	if err != nil {
		t.Fatalf("Stale: %v", err)
	}
	if len(stale) != 1 || stale[0] != f {
		t.Errorf("stale = %v, want [%s]", stale, f)
	}
}

func TestStaleMissingPathIsStale(t *testing.T) {
	s, root := openTestStore(t)
	f := filepath.Join(root, "missing.txt")

	stale, err := s.Stale([]string{f})
	if err != nil {
		t.Fatalf("Stale: %v", err)
	}
	if len(stale) != 1 || stale[0] != f {
		t.Errorf("stale = %v, want [%s]", stale, f)
	}
}

func TestStaleReturnsOnlyChangedSubset(t *testing.T) {
	s, root := openTestStore(t)
	a := filepath.Join(root, "a.txt")
	b := filepath.Join(root, "b.txt")
	writeFile(t, a, "one")
	writeFile(t, b, "two")

	if _, err := s.Stale([]string{a, b}); err != nil {
		t.Fatalf("Stale: %v", err)
	}

	time.Sleep(2 * time.Millisecond)
	writeFile(t, b, "two but different length")

	stale, err := s.Stale([]string{a, b})
	if err != nil {
		t.Fatalf("Stale: %v", err)
	}
	if len(stale) != 1 || stale[0] != b {
		t.Errorf("stale = %v, want [%s]", stale, b)
	}
}
