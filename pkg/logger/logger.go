// Package logger provides the leveled logging interface used across musicdl.
// Commands log to a per-run file; libraries accept a Logger and default to
// NopLogger.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Logger is implemented by every log backend.
// Cookie values must never be passed to it.
type Logger interface {
	// Debug logs detail that is only useful when tracing a problem.
	// Dropped unless the backend was created with debug enabled.
	Debug(format string, args ...interface{})

	// Info logs a normal event (e.g., "saved 3 cookies of yandex.ru").
	Info(format string, args ...interface{})

	// Warning logs a recoverable problem.
	Warning(format string, args ...interface{})

	// Error logs a failure of the current operation.
	Error(format string, args ...interface{})

	// Close releases resources held by the logger. Safe to call twice.
	Close() error
}

// StandardLogger writes to a stdlib *log.Logger with level prefixes.
type StandardLogger struct {
	logger *log.Logger
	debug  bool
	closer io.Closer
	once   sync.Once
}

// NewStandardLogger wraps l. Debug messages are written only when debug is true.
func NewStandardLogger(l *log.Logger, debug bool) *StandardLogger {
	return &StandardLogger{logger: l, debug: debug}
}

// timeNow is replaced in tests.
var timeNow = time.Now

// LogFileName returns the name of a log file started at t.
func LogFileName(t time.Time) string {
	return t.Format("2006-01-02 15_04_05.000000") + ".log"
}

// NewFileLogger creates dir if needed and logs into a new file in it named
// after the current time.
func NewFileLogger(dir string, debug bool) (*StandardLogger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	path := filepath.Join(dir, LogFileName(timeNow()))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	l := NewStandardLogger(log.New(f, "", log.LstdFlags|log.Lmicroseconds), debug)
	l.closer = f
	return l, nil
}

// Debug logs a message with [DEBUG] prefix when debug output is enabled.
func (s *StandardLogger) Debug(format string, args ...interface{}) {
	if !s.debug {
		return
	}
	s.logger.Printf("[DEBUG] "+format, args...)
}

// Info logs a message with [INFO] prefix.
func (s *StandardLogger) Info(format string, args ...interface{}) {
	s.logger.Printf("[INFO] "+format, args...)
}

// Warning logs a message with [WARNING] prefix.
func (s *StandardLogger) Warning(format string, args ...interface{}) {
	s.logger.Printf("[WARNING] "+format, args...)
}

// Error logs a message with [ERROR] prefix.
func (s *StandardLogger) Error(format string, args ...interface{}) {
	s.logger.Printf("[ERROR] "+format, args...)
}

// Close closes the underlying file, if any.
func (s *StandardLogger) Close() (err error) {
	s.once.Do(func() {
		if s.closer != nil {
			err = s.closer.Close()
		}
	})
	return
}

// NopLogger discards everything.
type NopLogger struct{}

func NewNopLogger() *NopLogger {
	return &NopLogger{}
}

func (n *NopLogger) Debug(format string, args ...interface{})   {}
func (n *NopLogger) Info(format string, args ...interface{})    {}
func (n *NopLogger) Warning(format string, args ...interface{}) {}
func (n *NopLogger) Error(format string, args ...interface{})   {}
func (n *NopLogger) Close() error                               { return nil }

var (
	_ Logger = (*StandardLogger)(nil)
	_ Logger = (*NopLogger)(nil)
)

// MockLogger records every call for assertions in tests. It is safe for
// concurrent use.
type MockLogger struct {
	mu           sync.Mutex
	DebugCalls   []string
	InfoCalls    []string
	WarningCalls []string
	ErrorCalls   []string
	CloseCalled  bool
}

func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

func (m *MockLogger) record(dst *[]string, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	*dst = append(*dst, fmt.Sprintf(format, args...))
}

func (m *MockLogger) Debug(format string, args ...interface{}) {
	m.record(&m.DebugCalls, format, args...)
}

func (m *MockLogger) Info(format string, args ...interface{}) {
	m.record(&m.InfoCalls, format, args...)
}

func (m *MockLogger) Warning(format string, args ...interface{}) {
	m.record(&m.WarningCalls, format, args...)
}

func (m *MockLogger) Error(format string, args ...interface{}) {
	m.record(&m.ErrorCalls, format, args...)
}

func (m *MockLogger) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCalled = true
	return nil
}

var _ Logger = (*MockLogger)(nil)
