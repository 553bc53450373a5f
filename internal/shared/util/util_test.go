package util

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestContainsPathSeparator(t *testing.T) {
	t.Parallel()

	cases := map[string]bool{
		".py":      false,
		"a/b":      true,
		`dir\file`: true,
		"":         false,
	}
	for in, want := range cases {
		if got := ContainsPathSeparator(in); got != want {
			t.Errorf("ContainsPathSeparator(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSortedStringKeys(t *testing.T) {
	t.Parallel()

	m := map[string]int{"b.py": 2, "a.py": 1, "c.py": 3}
	keys := SortedStringKeys(m)
	expected := []string{"a.py", "b.py", "c.py"}
	if len(keys) != len(expected) {
		t.Fatalf("expected %d keys, got %d", len(expected), len(keys))
	}
	for i, key := range expected {
		if keys[i] != key {
			t.Fatalf("expected %q at %d, got %q", key, i, keys[i])
		}
	}
}

func TestCreateWithDirs(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "out.txt")
	f, err := CreateWithDirs(path)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := f.WriteString("hello"); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(got) != "hello" {
		t.Fatalf("expected %q, got %q", "hello", string(got))
	}
}

func TestHeapStats(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		before HeapStats
		after  HeapStats
		growth uint64
		mb     uint64
	}{
		{"grew", HeapStats{AllocBytes: 1 << 20}, HeapStats{AllocBytes: 3 << 20}, 2 << 20, 3},
		{"shrank", HeapStats{AllocBytes: 5 << 20}, HeapStats{AllocBytes: 1 << 20}, 0, 1},
		{"below one MB", HeapStats{}, HeapStats{AllocBytes: 1000}, 1000, 0},
	}
	for _, tc := range cases {
		if got := tc.after.Growth(tc.before); got != tc.growth {
			t.Errorf("%s: Growth = %d, want %d", tc.name, got, tc.growth)
		}
		if got := tc.after.AllocMB(); got != tc.mb {
			t.Errorf("%s: AllocMB = %d, want %d", tc.name, got, tc.mb)
		}
	}
}

func TestReadHeap(t *testing.T) {
	buf := make([]byte, 4<<20)
	buf[len(buf)-1] = 1
	h := ReadHeap()
	if h.AllocBytes == 0 || h.Objects == 0 {
		t.Fatalf("expected a non-empty heap sample, got %+v", h)
	}
	runtime.KeepAlive(buf)
}
