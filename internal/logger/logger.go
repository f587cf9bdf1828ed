package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const maxBufferSize = 1000

var (
	instance *Logger
	once     sync.Once
)

type Level string

const (
	LevelInfo  Level = "INFO"
	LevelError Level = "ERROR"
	LevelFile  Level = "FILE"
)

type LogEntry struct {
	Timestamp time.Time
	Level     Level
	Component string
	Message   string
}

type Logger struct {
	file    *os.File
	zl      zerolog.Logger
	mu      sync.Mutex
	buffer  []LogEntry
	enabled bool
}

// Init opens logPath for appending and routes every entry to it through
// zerolog. Entries are always kept in the in-memory ring buffer, even when
// Init was never called or failed.
func Init(logPath string, level string) error {
	var initErr error
	once.Do(func() {
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			initErr = fmt.Errorf("failed to open log file: %w", err)
			return
		}

		instance = &Logger{
			file:    file,
			zl:      newZerolog(file, level),
			buffer:  make([]LogEntry, 0, maxBufferSize),
			enabled: true,
		}
	})

	if instance == nil && initErr == nil {
		EnsureInit()
	}

	return initErr
}

// InitWriter is Init for an already open writer, used by tests and the
// CLI's --verbose mode.
func InitWriter(w io.Writer, level string) {
	instance = &Logger{
		zl:      newZerolog(w, level),
		buffer:  make([]LogEntry, 0, maxBufferSize),
		enabled: true,
	}
}

func newZerolog(w io.Writer, level string) zerolog.Logger {
	return zerolog.New(w).
		Level(parseLevel(level)).
		With().
		Timestamp().
		Str("app", "glprofiles").
		Logger()
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

func EnsureInit() {
	if instance == nil {
		instance = &Logger{
			buffer:  make([]LogEntry, 0, maxBufferSize),
			enabled: false,
		}
	}
}

func Close() error {
	if instance != nil && instance.file != nil {
		return instance.file.Close()
	}
	return nil
}

func addToBuffer(entry LogEntry) {
	EnsureInit()
	instance.mu.Lock()
	defer instance.mu.Unlock()

	if len(instance.buffer) >= maxBufferSize {
		instance.buffer = instance.buffer[1:]
	}
	instance.buffer = append(instance.buffer, entry)
}

func GetLogs() []LogEntry {
	EnsureInit()
	instance.mu.Lock()
	defer instance.mu.Unlock()

	logs := make([]LogEntry, len(instance.buffer))
	copy(logs, instance.buffer)
	return logs
}

func write(entry LogEntry, fields map[string]string, err error) {
	entry.Timestamp = time.Now()
	addToBuffer(entry)

	if instance == nil || !instance.enabled {
		return
	}

	instance.mu.Lock()
	defer instance.mu.Unlock()

	var ev *zerolog.Event
	if entry.Level == LevelError {
		ev = instance.zl.Error().Err(err)
	} else {
		ev = instance.zl.Info()
	}
	if entry.Component != "" {
		ev = ev.Str("component", entry.Component)
	}
	for k, v := range fields {
		ev = ev.Str(k, v)
	}
	ev.Msg(entry.Message)
}

func LogFileOpen(path string) {
	write(LogEntry{Level: LevelFile, Message: fmt.Sprintf("[FILE_OPEN] %s", path)}, map[string]string{"path": path}, nil)
}

func LogFileWrite(path string) {
	write(LogEntry{Level: LevelFile, Message: fmt.Sprintf("[FILE_WRITE] %s", path)}, map[string]string{"path": path}, nil)
}

func LogError(operation, target string, err error) {
	message := fmt.Sprintf("[ERROR] %s: %s - %v", operation, target, err)
	write(LogEntry{Level: LevelError, Message: message}, map[string]string{"operation": operation}, err)
}

func Log(message string, args ...interface{}) {
	formatted := fmt.Sprintf("[INFO] "+message, args...)
	write(LogEntry{Level: LevelInfo, Message: formatted}, nil, nil)
}

// Component is a logger bound to one subsystem name.
type Component struct {
	name string
}

func ForComponent(name string) Component {
	return Component{name: name}
}

func (c Component) Log(message string, args ...interface{}) {
	formatted := fmt.Sprintf("[INFO] "+message, args...)
	write(LogEntry{Level: LevelInfo, Component: c.name, Message: formatted}, nil, nil)
}

func (c Component) LogError(operation, target string, err error) {
	message := fmt.Sprintf("[ERROR] %s: %s - %v", operation, target, err)
	write(LogEntry{Level: LevelError, Component: c.name, Message: message}, map[string]string{"operation": operation}, err)
}

// MaskToken keeps the last four characters of a secret.
func MaskToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 4 {
		return "****"
	}
	return "****" + token[len(token)-4:]
}
