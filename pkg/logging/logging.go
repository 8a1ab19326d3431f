// Package logging configures slog for the shell and provides a size-rotated
// log file.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// FileConfig configures a RotatingFile.
type FileConfig struct {
	Path     string
	MaxSize  int64 // max file size in bytes (default: 10MB)
	MaxFiles int   // number of rotated files to keep (default: 5)
}

// RotatingFile is an io.Writer that rotates path to path.1, path.2, ...
// once it grows past MaxSize.
type RotatingFile struct {
	mu       sync.Mutex
	file     *os.File
	path     string
	maxSize  int64
	maxFiles int
	written  int64
}

// OpenFile opens or creates the log file.
func OpenFile(cfg FileConfig) (*RotatingFile, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("log file path is empty")
	}
	maxSize := cfg.MaxSize
	if maxSize <= 0 {
		maxSize = 10 * 1024 * 1024
	}
	maxFiles := cfg.MaxFiles
	if maxFiles <= 0 {
		maxFiles = 5
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	rf := &RotatingFile{
		file:     f,
		path:     cfg.Path,
		maxSize:  maxSize,
		maxFiles: maxFiles,
	}
	if info, err := f.Stat(); err == nil {
		rf.written = info.Size()
	}
	return rf, nil
}

// Write appends p, rotating afterwards if the size limit was reached.
func (rf *RotatingFile) Write(p []byte) (int, error) {
	rf.mu.Lock()
	defer rf.mu.Unlock()

	if rf.file == nil {
		return 0, fmt.Errorf("log file closed")
	}
	n, err := rf.file.Write(p)
	rf.written += int64(n)
	if err != nil {
		return n, err
	}
	if rf.written >= rf.maxSize {
		rf.rotate()
	}
	return n, nil
}

// Close closes the log file.
func (rf *RotatingFile) Close() error {
	rf.mu.Lock()
	defer rf.mu.Unlock()
	if rf.file != nil {
		err := rf.file.Close()
		rf.file = nil
		return err
	}
	return nil
}

func (rf *RotatingFile) rotate() {
	rf.file.Close()
	rf.file = nil

	for i := rf.maxFiles - 1; i > 0; i-- {
		os.Rename(fmt.Sprintf("%s.%d", rf.path, i), fmt.Sprintf("%s.%d", rf.path, i+1))
	}
	os.Rename(rf.path, rf.path+".1")
	os.Remove(fmt.Sprintf("%s.%d", rf.path, rf.maxFiles+1))

	f, err := os.OpenFile(rf.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "netshell: reopen rotated log file: %v\n", err)
		return
	}
	rf.file = f
	rf.written = 0
}

// Setup installs a text slog handler writing to w as the default logger.
// The returned LevelVar changes the threshold at runtime.
func Setup(w io.Writer, level slog.Level) *slog.LevelVar {
	lv := new(slog.LevelVar)
	lv.Set(level)
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lv})))
	return lv
}
