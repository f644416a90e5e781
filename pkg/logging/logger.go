// Package logging writes component-tagged log lines to a daily log file.
//
// Files are named <YYYY-MM-DD>.log (UTC) inside the log directory and files
// older than the retention window are pruned once per day. The system log
// keeps only errors by default; Configure lowers the threshold for debugging.
//
// The directory is resolved in this order:
//
//  1. $CLAW_LOG_DIR/system (relative paths resolve against the working directory)
//  2. <workspacePath>/logs/system, where workspacePath comes from ~/.clawbrowser/config.json
//  3. ~/.clawbrowser/workspace/logs/system
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/entrhq/clawbrowser/pkg/config"
)

// Level is a log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelOff
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "OFF"
	}
}

// ParseLevel parses debug, info, warn, error or off.
func ParseLevel(raw string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error", "":
		return LevelError, nil
	case "off":
		return LevelOff, nil
	default:
		return LevelError, fmt.Errorf("invalid log level %q (must be debug, info, warn, error or off)", raw)
	}
}

const (
	// RetentionDays is how many daily files are kept, today included.
	RetentionDays = 7

	// LogDirEnvVar overrides the log base directory.
	LogDirEnvVar = "CLAW_LOG_DIR"
)

// Logger writes leveled lines tagged with a component name.
type Logger struct {
	component string
	level     Level
	out       io.Writer
	path      func() string
	mu        sync.Mutex
}

var (
	// Global session ID for the current execution
	sessionID     string
	sessionIDOnce sync.Once

	stateMu  sync.Mutex
	logDir   string
	minLevel = LevelError
	sink     *dailyFile

	// now is replaced in tests.
	now = time.Now
)

// getSessionID returns or creates the session ID for this execution
func getSessionID() string {
	sessionIDOnce.Do(func() {
		sessionID = uuid.New().String()
	})
	return sessionID
}

// Configure sets the log directory and threshold for loggers created
// afterwards. An empty dir keeps the default resolution.
func Configure(dir string, level Level) {
	stateMu.Lock()
	defer stateMu.Unlock()

	if sink != nil {
		_ = sink.Close()
		sink = nil
	}
	logDir = dir
	minLevel = level
}

// ResolveDir returns the default log directory.
func ResolveDir() (string, error) {
	if raw := strings.TrimSpace(os.Getenv(LogDirEnvVar)); raw != "" {
		base := raw
		if !filepath.IsAbs(base) {
			if cwd, err := os.Getwd(); err == nil {
				base = filepath.Join(cwd, base)
			}
		}
		return filepath.Join(base, "system"), nil
	}

	workspace, err := config.ResolveWorkspacePath()
	if err != nil {
		return "", err
	}
	return filepath.Join(workspace, "logs", "system"), nil
}

// sharedSink returns the process-wide daily file, creating the directory on
// first use.
func sharedSink() (*dailyFile, Level, error) {
	stateMu.Lock()
	defer stateMu.Unlock()

	if sink != nil {
		return sink, minLevel, nil
	}

	dir := logDir
	if dir == "" {
		resolved, err := ResolveDir()
		if err != nil {
			return nil, minLevel, fmt.Errorf("failed to resolve log directory: %w", err)
		}
		dir = resolved
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, minLevel, fmt.Errorf("failed to create log directory: %w", err)
	}

	logDir = dir
	sink = newDailyFile(dir, RetentionDays)
	sink.pruneOldLogs()
	return sink, minLevel, nil
}

// NewLogger creates a logger for a component writing to the daily log file.
//
// If the log directory cannot be created it returns a fallback logger that
// writes to stderr along with the error.
func NewLogger(component string) (*Logger, error) {
	file, level, err := sharedSink()
	if err != nil {
		return newFallbackLogger(component, level, err), err
	}

	return &Logger{
		component: component,
		level:     level,
		out:       file,
		path:      file.Path,
	}, nil
}

// NewWriterLogger creates a logger that writes to w.
func NewWriterLogger(component string, w io.Writer, level Level) *Logger {
	return &Logger{
		component: component,
		level:     level,
		out:       w,
	}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return NewWriterLogger("", io.Discard, LevelOff)
}

// newFallbackLogger creates a logger that writes to stderr when file logging fails
func newFallbackLogger(component string, level Level, err error) *Logger {
	fallback := log.New(os.Stderr, fmt.Sprintf("[%s] ", component), log.LstdFlags)
	fallback.Printf("WARNING: Failed to initialize file logging: %v", err)
	fallback.Printf("Falling back to stderr logging")

	return NewWriterLogger(component, os.Stderr, level)
}

func (l *Logger) write(level Level, format string, v ...interface{}) {
	if l == nil || level < l.level {
		return
	}

	entry := fmt.Sprintf("[%s] [%s] [%s] %s\n",
		now().UTC().Format(time.RFC3339), l.component, level, fmt.Sprintf(format, v...))

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.out, entry)
}

// Printf logs a formatted message at info level
func (l *Logger) Printf(format string, v ...interface{}) {
	l.write(LevelInfo, format, v...)
}

// Debugf logs a debug-level message
func (l *Logger) Debugf(format string, v ...interface{}) {
	l.write(LevelDebug, format, v...)
}

// Infof logs an info-level message
func (l *Logger) Infof(format string, v ...interface{}) {
	l.write(LevelInfo, format, v...)
}

// Warnf logs a warning-level message
func (l *Logger) Warnf(format string, v ...interface{}) {
	l.write(LevelWarn, format, v...)
}

// Errorf logs an error-level message
func (l *Logger) Errorf(format string, v ...interface{}) {
	l.write(LevelError, format, v...)
}

// Enabled reports whether messages at level are written.
func (l *Logger) Enabled(level Level) bool {
	return l != nil && level >= l.level
}

// Writer returns the underlying writer.
func (l *Logger) Writer() io.Writer {
	return l.out
}

// LogPath returns today's log file, or "" for writer-backed loggers.
func (l *Logger) LogPath() string {
	if l.path == nil {
		return ""
	}
	return l.path()
}

// SessionID returns the current session ID
func (l *Logger) SessionID() string {
	return getSessionID()
}

// GetSessionID returns the current global session ID
func GetSessionID() string {
	return getSessionID()
}

// GetLogDirectory returns the directory where logs are stored
func GetLogDirectory() (string, error) {
	if _, _, err := sharedSink(); err != nil {
		return "", err
	}
	stateMu.Lock()
	defer stateMu.Unlock()
	return logDir, nil
}

// Close closes the shared log file. Loggers keep working and reopen it on
// the next write.
func Close() error {
	stateMu.Lock()
	defer stateMu.Unlock()
	if sink == nil {
		return nil
	}
	return sink.Close()
}
