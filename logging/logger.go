// Package logging provides the engine's levelled log stream and the in-game
// message log shown by the debug overlay.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Logger writes INFO/WARN/ERROR lines to stderr and, when opened with a
// path, to a log file as well. Every line is mirrored into Messages.
type Logger struct {
	infoLogger  *log.Logger
	warnLogger  *log.Logger
	errorLogger *log.Logger
	file        *os.File
	messages    *MessageLog
}

// New creates a logger writing to stderr and to the file at path.
// An empty path logs to stderr only. If the file cannot be opened the
// returned logger still works on stderr and the error is returned with it.
func New(path string) (*Logger, error) {
	var (
		w    io.Writer = os.Stderr
		file *os.File
		err  error
	)

	if path != "" {
		file, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			err = fmt.Errorf("could not initialize log file %s: %w", path, err)
			file = nil
		} else {
			w = io.MultiWriter(os.Stderr, file)
		}
	}

	l := NewWithWriter(w)
	l.file = file
	return l, err
}

// NewWithWriter creates a logger that writes every level to w
func NewWithWriter(w io.Writer) *Logger {
	flags := log.Ldate | log.Ltime
	return &Logger{
		infoLogger:  log.New(w, "INFO  ", flags),
		warnLogger:  log.New(w, "WARN  ", flags),
		errorLogger: log.New(w, "ERROR ", flags),
		messages:    NewMessageLog(DefaultMaxMessages),
	}
}

// Discard returns a logger that only records into its message log
func Discard() *Logger {
	return NewWithWriter(io.Discard)
}

// Messages returns the in-game message log fed by this logger
func (l *Logger) Messages() *MessageLog {
	return l.messages
}

// Info logs informational messages
func (l *Logger) Info(msg string) {
	l.infoLogger.Println(msg)
	l.messages.AddTyped(msg, MessageTypeNormal)
}

// Infof formats and logs an informational message
func (l *Logger) Infof(format string, args ...any) {
	l.Info(fmt.Sprintf(format, args...))
}

// System logs lifecycle messages at info level, highlighted in the overlay
func (l *Logger) System(msg string) {
	l.infoLogger.Println(msg)
	l.messages.AddTyped(msg, MessageTypeSystem)
}

// Warn logs warning messages
func (l *Logger) Warn(msg string) {
	l.warnLogger.Println(msg)
	l.messages.AddTyped(msg, MessageTypeAlert)
}

// Warnf formats and logs a warning
func (l *Logger) Warnf(format string, args ...any) {
	l.Warn(fmt.Sprintf(format, args...))
}

// Error logs error messages
func (l *Logger) Error(msg string) {
	l.errorLogger.Println(msg)
	l.messages.AddTyped(msg, MessageTypeError)
}

// Errorf formats and logs an error
func (l *Logger) Errorf(format string, args ...any) {
	l.Error(fmt.Sprintf(format, args...))
}

// Close closes the log file, if any
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
