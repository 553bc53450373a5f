package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func pythonOptions(debounce time.Duration) Options {
	return Options{
		Debounce:     debounce,
		Extensions:   []string{".py", ".PYI"},
		ExcludeFiles: []string{"*_generated.py"},
	}
}

func TestNewWatcher_RejectsNilCallback(t *testing.T) {
	w, err := NewWatcher(pythonOptions(100*time.Millisecond), nil)
	if err == nil {
		t.Fatal("expected error for nil callback")
	}
	if !errors.Is(err, os.ErrInvalid) {
		t.Fatalf("expected os.ErrInvalid, got %v", err)
	}
	if w != nil {
		t.Fatal("expected nil watcher when callback is invalid")
	}
}

func TestNewWatcher_RejectsBadGlob(t *testing.T) {
	_, err := NewWatcher(Options{ExcludeFiles: []string{"[a-"}}, func([]string) {})
	if err == nil {
		t.Fatal("expected error for invalid glob")
	}
}

func TestWatcher_DirectoryChanges(t *testing.T) {
	tmpDir := t.TempDir()

	changedFiles := make(chan []string, 8)
	w, err := NewWatcher(pythonOptions(100*time.Millisecond), func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch(tmpDir); err != nil {
		t.Fatal(err)
	}

	testFile := filepath.Join(tmpDir, "mod.py")
	if err := os.WriteFile(testFile, []byte("x = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	timeout := time.After(2 * time.Second)
	for {
		select {
		case paths := <-changedFiles:
			for _, p := range paths {
				if p == testFile {
					return
				}
			}
		case <-timeout:
			t.Fatalf("timed out waiting for change of %s", testFile)
		}
	}
}

func TestWatcher_IgnoresFilteredFiles(t *testing.T) {
	tmpDir := t.TempDir()

	changedFiles := make(chan []string, 8)
	w, err := NewWatcher(pythonOptions(50*time.Millisecond), func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch(tmpDir); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"notes.txt", "api_generated.py"} {
		if err := os.WriteFile(filepath.Join(tmpDir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case paths := <-changedFiles:
		t.Fatalf("unexpected change notification %v", paths)
	case <-time.After(400 * time.Millisecond):
	}
}

func TestWatcher_SingleFile(t *testing.T) {
	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "script")
	if err := os.WriteFile(target, []byte("x = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	changedFiles := make(chan []string, 8)
	w, err := NewWatcher(pythonOptions(50*time.Millisecond), func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch(target); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(tmpDir, "other.py"), []byte("y = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(target, []byte("x = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case paths := <-changedFiles:
		if len(paths) != 1 || paths[0] != target {
			t.Fatalf("expected only %s, got %v", target, paths)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for single file change")
	}
}

func TestWatcher_ShouldExcludeFile(t *testing.T) {
	w, err := NewWatcher(pythonOptions(10*time.Millisecond), func([]string) {})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	cases := map[string]bool{
		"pkg/main.py":          false,
		"pkg/types.pyi":        false,
		"pkg/README.md":        true,
		"pkg/api_generated.py": true,
		"pkg/UPPER.PY":         false,
	}
	for path, want := range cases {
		if got := w.shouldExcludeFile(path); got != want {
			t.Errorf("shouldExcludeFile(%q) = %v, want %v", path, got, want)
		}
	}
}
