// Package logfile tees the standard logger to stdout and a file.
package logfile

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

// Setup points the standard logger at stdout and path. The returned closer
// restores stdout-only logging and closes the file. An empty path only
// configures stdout.
func Setup(path string) (io.Closer, error) {
	log.SetFlags(log.LstdFlags)
	if path == "" {
		log.SetOutput(os.Stdout)
		return closer{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to ensure log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	log.SetOutput(io.MultiWriter(os.Stdout, f))
	return closer{f}, nil
}

type closer struct{ f *os.File }

func (c closer) Close() error {
	log.SetOutput(os.Stdout)
	if c.f == nil {
		return nil
	}
	return c.f.Close()
}
