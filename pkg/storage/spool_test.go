package storage

import (
	"os"
	"strings"
	"testing"
)

func TestSpoolWriteAndRemove(t *testing.T) {
	spool, err := NewSpool(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create spool: %v", err)
	}

	path, size, err := spool.Write(strings.NewReader("fake video bytes"))
	if err != nil {
		t.Fatalf("Failed to spool content: %v", err)
	}

	if size != int64(len("fake video bytes")) {
		t.Errorf("Expected size %d, got %d", len("fake video bytes"), size)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read spooled file: %v", err)
	}
	if string(data) != "fake video bytes" {
		t.Errorf("Unexpected spooled content: %q", data)
	}

	if err := spool.Remove(path); err != nil {
		t.Fatalf("Failed to remove spooled file: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Expected spooled file to be removed")
	}
}

func TestSpoolDefaultDir(t *testing.T) {
	spool, err := NewSpool("")
	if err != nil {
		t.Fatalf("Failed to create spool: %v", err)
	}

	path, _, err := spool.Write(strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Failed to spool content: %v", err)
	}
	defer spool.Remove(path)

	if !strings.HasPrefix(path, os.TempDir()) {
		t.Errorf("Expected spool file under %s, got %s", os.TempDir(), path)
	}
}
