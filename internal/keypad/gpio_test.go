package keypad

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func writePinDirs(t *testing.T, base string, pins ...int) {
	t.Helper()
	for _, pin := range pins {
		dir := filepath.Join(base, fmt.Sprintf("gpio%d", pin))
		if err := os.MkdirAll(dir, 0700); err != nil {
			t.Fatalf("mkdir error: %v", err)
		}
		if err := os.WriteFile(filepath.Join(dir, "value"), []byte("0\n"), 0600); err != nil {
			t.Fatalf("write error: %v", err)
		}
	}
}

func TestSysfsMatrixReadsAndWritesValueFiles(t *testing.T) {
	base := t.TempDir()
	rows := []int{1, 2, 3, 4}
	cols := []int{5, 6, 7, 8}
	writePinDirs(t, base, 1, 2, 3, 4, 5, 6, 7, 8)

	m, err := newSysfsMatrix(base, rows, cols)
	if err != nil {
		t.Fatalf("matrix error: %v", err)
	}

	m.SetRow(2, true)
	data, err := os.ReadFile(filepath.Join(base, "gpio3", "value"))
	if err != nil || data[0] != '1' {
		t.Fatalf("row not driven: %q (%v)", data, err)
	}
	m.SetRow(2, false)
	data, _ = os.ReadFile(filepath.Join(base, "gpio3", "value"))
	if data[0] != '0' {
		t.Fatalf("row not released: %q", data)
	}

	if m.Column(0) {
		t.Fatal("idle column reads active")
	}
	if err := os.WriteFile(filepath.Join(base, "gpio5", "value"), []byte("1\n"), 0600); err != nil {
		t.Fatalf("write error: %v", err)
	}
	if !m.Column(0) {
		t.Fatal("driven column reads inactive")
	}
}

func TestSysfsMatrixRejectsBadPinSets(t *testing.T) {
	base := t.TempDir()
	if _, err := newSysfsMatrix(base, []int{1, 2}, []int{3, 4}); err == nil {
		t.Fatal("expected error for short pin lists")
	}
	// Unexported pins have no value file.
	if _, err := newSysfsMatrix(base, []int{1, 2, 3, 4}, []int{5, 6, 7, 8}); err == nil {
		t.Fatal("expected error for unexported pins")
	}
}
