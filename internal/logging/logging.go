// Package logging builds the slog loggers shared by the binaries.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// EnvLogPath names the environment variable that redirects logs to a
// size-capped file.
const EnvLogPath = "SENTRY_LOG_PATH"

// New returns a text logger at level writing to w, or to the file named by
// SENTRY_LOG_PATH when set. The returned closer releases the file and is
// never nil.
func New(w io.Writer, level string) (*slog.Logger, io.Closer) {
	var closer io.Closer = nopCloser{}
	if logPath := os.Getenv(EnvLogPath); logPath != "" {
		fileWriter, err := NewFileWriter(logPath)
		if err != nil {
			slog.New(slog.NewTextHandler(os.Stderr, nil)).Error("log file error", "error", err)
		} else {
			w = fileWriter
			closer = fileWriter
		}
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	}))
	return logger, closer
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

const (
	maxLogSizeBytes  = 6 * 1024 * 1024
	keepLogSizeBytes = 5 * 1024 * 1024
)

// FileWriter appends to a log file, keeping only the newest
// keepLogSizeBytes once the file grows past maxLogSizeBytes.
type FileWriter struct {
	file *os.File
	mu   sync.Mutex

	maxSize  int64
	keepSize int64
}

func NewFileWriter(path string) (*FileWriter, error) {
	return newFileWriter(path, maxLogSizeBytes, keepLogSizeBytes)
}

func newFileWriter(path string, maxSize, keepSize int64) (*FileWriter, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	w := &FileWriter{file: file, maxSize: maxSize, keepSize: keepSize}
	if err := w.truncateIfNeeded(); err != nil {
		_ = file.Close()
		return nil, err
	}
	return w, nil
}

func (w *FileWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err := w.file.Write(p)
	if err != nil {
		return n, err
	}
	if err := w.truncateIfNeeded(); err != nil {
		return n, err
	}
	return n, nil
}

func (w *FileWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}

func (w *FileWriter) truncateIfNeeded() error {
	info, err := w.file.Stat()
	if err != nil {
		return err
	}
	size := info.Size()
	if size <= w.maxSize {
		return nil
	}

	buf := make([]byte, w.keepSize)
	n, err := w.file.ReadAt(buf, size-w.keepSize)
	if err != nil && err != io.EOF {
		return err
	}
	buf = buf[:n]

	if err := w.file.Truncate(0); err != nil {
		return err
	}
	// O_APPEND writes land at the new end after truncation.
	_, err = w.file.Write(buf)
	return err
}
