package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

var levelNames = [...]string{Debug: "debug", Info: "info", Warn: "warn", Error: "error"}

func (l Level) String() string {
	if l < Debug || l > Error {
		return levelNames[Info]
	}
	return levelNames[l]
}

// ParseLevel maps a config value to a Level. Unknown names mean Info.
func ParseLevel(s string) Level {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range levelNames {
		if n == s {
			return Level(i)
		}
	}
	return Info
}

// Logger is safe for concurrent use. A nil *Logger discards everything.
type Logger struct {
	mu   sync.Mutex
	min  Level
	json bool
	out  io.Writer
}

type record struct {
	TS    string `json:"ts"`
	Level string `json:"level"`
	Msg   string `json:"msg"`
}

func NewWriter(out io.Writer, level string, jsonOut bool) *Logger {
	if out == nil {
		out = io.Discard
	}
	return &Logger{min: ParseLevel(level), json: jsonOut, out: out}
}

// OpenFile appends to path, creating parent directories. The TUI owns the
// terminal so it logs here instead of stderr.
func OpenFile(path, level string, jsonOut bool) (*Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return NewWriter(f, level, jsonOut), f, nil
}

func Discard() *Logger { return NewWriter(io.Discard, "error", false) }

func (l *Logger) Enabled(v Level) bool { return l != nil && v >= l.min }

func (l *Logger) Debugf(format string, a ...any) { l.emit(Debug, format, a) }
func (l *Logger) Infof(format string, a ...any)  { l.emit(Info, format, a) }
func (l *Logger) Warnf(format string, a ...any)  { l.emit(Warn, format, a) }
func (l *Logger) Errorf(format string, a ...any) { l.emit(Error, format, a) }

func (l *Logger) emit(level Level, format string, a []any) {
	if !l.Enabled(level) {
		return
	}
	msg := fmt.Sprintf(format, a...)
	var line []byte
	if l.json {
		line, _ = json.Marshal(record{TS: time.Now().Format(time.RFC3339Nano), Level: level.String(), Msg: msg})
		line = append(line, '\n')
	} else {
		line = []byte(strings.ToUpper(level.String()) + "\t" + msg + "\n")
	}
	l.mu.Lock()
	_, _ = l.out.Write(line)
	l.mu.Unlock()
}
