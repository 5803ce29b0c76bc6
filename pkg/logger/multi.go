package logger

// MultiLogger broadcasts every message to several backends, e.g. the run's
// log file and stderr for warnings.
type MultiLogger struct {
	loggers []Logger
}

func NewMultiLogger(loggers ...Logger) *MultiLogger {
	return &MultiLogger{loggers: loggers}
}

func (m *MultiLogger) Debug(format string, args ...interface{}) {
	for _, l := range m.loggers {
		l.Debug(format, args...)
	}
}

func (m *MultiLogger) Info(format string, args ...interface{}) {
	for _, l := range m.loggers {
		l.Info(format, args...)
	}
}

func (m *MultiLogger) Warning(format string, args ...interface{}) {
	for _, l := range m.loggers {
		l.Warning(format, args...)
	}
}

func (m *MultiLogger) Error(format string, args ...interface{}) {
	for _, l := range m.loggers {
		l.Error(format, args...)
	}
}

// Close closes every backend and returns the first error.
func (m *MultiLogger) Close() error {
	var firstErr error
	for _, l := range m.loggers {
		if err := l.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

var _ Logger = (*MultiLogger)(nil)

// LevelFilter forwards only warnings and errors to its backend.
type LevelFilter struct {
	Logger
}

func NewWarningFilter(l Logger) *LevelFilter {
	return &LevelFilter{Logger: l}
}

func (f *LevelFilter) Debug(format string, args ...interface{}) {}
func (f *LevelFilter) Info(format string, args ...interface{})  {}
