package storage

import (
	"fmt"
	"io"
	"os"
)

// Spool buffers upstream media bodies to temporary files so the full
// content is on disk before a byte of it is served to the caller.
type Spool struct {
	dir string
}

// NewSpool creates a spool writing into dir. An empty dir means the OS
// temp directory.
func NewSpool(dir string) (*Spool, error) {
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create spool directory: %w", err)
		}
	}
	return &Spool{dir: dir}, nil
}

// Write copies r into a fresh temporary file and returns its path and
// size. The caller owns the file and removes it with Remove when done.
func (s *Spool) Write(r io.Reader) (string, int64, error) {
	f, err := os.CreateTemp(s.dir, "igdl-*.tmp")
	if err != nil {
		return "", 0, fmt.Errorf("failed to create spool file: %w", err)
	}

	size, err := io.Copy(f, r)
	closeErr := f.Close()
	if err != nil {
		os.Remove(f.Name())
		return "", 0, fmt.Errorf("failed to spool content: %w", err)
	}
	if closeErr != nil {
		os.Remove(f.Name())
		return "", 0, fmt.Errorf("failed to close spool file: %w", closeErr)
	}

	return f.Name(), size, nil
}

// Remove deletes a spooled file.
func (s *Spool) Remove(path string) error {
	return os.Remove(path)
}
