// Package logging provides the append-only launcher log.
//
// Records look like
//
//	2024-05-01 12:00:00 [INFO] message
//	2024-05-01 12:00:01 [ERROR] message
//	underlying cause
//
// Writers from the watcher goroutine and the core loop share one Logger; each
// record is written with a single Write call under a mutex so records never
// interleave.
package logging

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const timestampLayout = "2006-01-02 15:04:05"

type Level string

const (
	LevelInfo  Level = "INFO"
	LevelError Level = "ERROR"
)

type Logger struct {
	mu    sync.Mutex
	out   io.Writer
	close func() error
	now   func() time.Time
}

// New returns a Logger writing to w.
func New(w io.Writer) *Logger {
	return &Logger{out: w, now: time.Now}
}

// Open appends to the log file at path, creating it and its directory.
func Open(path string) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	l := New(f)
	l.close = f.Close
	return l, nil
}

// Discard returns a Logger that drops every record.
func Discard() *Logger {
	return New(io.Discard)
}

func (l *Logger) Info(format string, args ...any) {
	l.write(LevelInfo, fmt.Sprintf(format, args...), nil)
}

// Error logs message with the cause on the following line.
func (l *Logger) Error(message string, cause error) {
	l.write(LevelError, message, cause)
}

func (l *Logger) write(level Level, message string, cause error) {
	var buf bytes.Buffer
	buf.WriteString(l.now().Format(timestampLayout))
	buf.WriteString(" [")
	buf.WriteString(string(level))
	buf.WriteString("] ")
	buf.WriteString(message)
	buf.WriteByte('\n')
	if cause != nil {
		buf.WriteString(cause.Error())
		buf.WriteByte('\n')
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.out.Write(buf.Bytes())
}

// StdWriter adapts the Logger for log.SetOutput. Each line handed over by the
// standard logger becomes one INFO record.
func (l *Logger) StdWriter() io.Writer {
	return stdWriter{l}
}

type stdWriter struct {
	l *Logger
}

func (w stdWriter) Write(p []byte) (int, error) {
	w.l.write(LevelInfo, strings.TrimRight(string(p), "\n"), nil)
	return len(p), nil
}

func (l *Logger) Close() error {
	if l.close == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.close()
}
