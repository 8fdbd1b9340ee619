package logger

import "strings"

// Level is the verbosity threshold of a subsystem logger. Entries below the
// configured level are discarded before they reach the backend. Subsystems
// registered through RegisterSubSystem start at LevelInfo until SetLogLevels
// or a parsed configuration changes them.
type Level uint32

// Log levels, from most to least verbose.
const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelCritical
	LevelOff
)

var levelTags = [...]string{"TRC", "DBG", "INF", "WRN", "ERR", "CRT", "OFF"}

// LevelFromString parses a level from its long name or three-letter tag,
// case insensitively. Unrecognized input yields LevelInfo and false.
func LevelFromString(s string) (level Level, ok bool) {
	switch strings.ToLower(s) {
	case "trace", "trc":
		return LevelTrace, true
	case "debug", "dbg":
		return LevelDebug, true
	case "info", "inf":
		return LevelInfo, true
	case "warn", "wrn":
		return LevelWarn, true
	case "error", "err":
		return LevelError, true
	case "critical", "crt":
		return LevelCritical, true
	case "off":
		return LevelOff, true
	default:
		return LevelInfo, false
	}
}

// String returns the three-letter tag written into log entries, or "OFF"
// for a level that produces no output.
func (l Level) String() string {
	if l >= LevelOff {
		return "OFF"
	}
	return levelTags[l]
}
