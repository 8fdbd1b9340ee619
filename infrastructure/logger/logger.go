package logger

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
)

// backendLog is the logging backend used to create all subsystem loggers.
var backendLog = NewBackend()

var (
	subsystemsMutex sync.Mutex
	subsystems      = make(map[string]*Logger)
)

// RegisterSubSystem returns the logger for the given subsystem, creating it
// if it doesn't exist yet. Subsystem tags are conventionally four uppercase
// characters.
func RegisterSubSystem(subsystem string) *Logger {
	subsystemsMutex.Lock()
	defer subsystemsMutex.Unlock()
	logger, ok := subsystems[subsystem]
	if !ok {
		logger = backendLog.Logger(subsystem)
		subsystems[subsystem] = logger
	}
	return logger
}

// InitLog attaches log file and error log file to the backend log and starts
// it. Until InitLog is called all log writes are discarded.
func InitLog(logFile, errLogFile string) error {
	err := backendLog.AddLogFile(logFile, LevelTrace)
	if err != nil {
		return errors.Wrapf(err, "couldn't add log file %s as log rotator for level %s", logFile, LevelTrace)
	}
	err = backendLog.AddLogFile(errLogFile, LevelWarn)
	if err != nil {
		return errors.Wrapf(err, "couldn't add log file %s as log rotator for level %s", errLogFile, LevelWarn)
	}
	err = backendLog.AddLogWriter(os.Stdout, LevelInfo)
	if err != nil {
		return errors.Wrap(err, "couldn't add stdout to log rotator")
	}
	return backendLog.Run()
}

// SetLogLevels sets the logging level for all of the subsystems to the given
// level. An appropriate error is returned if the level is invalid.
func SetLogLevels(logLevel string) error {
	level, ok := LevelFromString(logLevel)
	if !ok {
		return errors.Errorf("the debuglevel parameter contains an invalid log level: %s", logLevel)
	}

	subsystemsMutex.Lock()
	defer subsystemsMutex.Unlock()
	for _, logger := range subsystems {
		logger.SetLevel(level)
	}
	return nil
}

// Logger is a subsystem logger routing writes to the Backend.
type Logger struct {
	level        uint32
	subsystemTag string
	backend      *Backend
	writeChan    chan<- logEntry
}

// Level returns the current logging level of the Logger.
func (l *Logger) Level() Level {
	return Level(atomic.LoadUint32(&l.level))
}

// SetLevel changes the logging level of the Logger to the passed level.
func (l *Logger) SetLevel(level Level) {
	atomic.StoreUint32(&l.level, uint32(level))
}

// Backend returns the backend this Logger writes to.
func (l *Logger) Backend() *Backend {
	return l.backend
}

const messageTimestampFormat = "2006-01-02 15:04:05.000"

func (l *Logger) write(logLevel Level, format string, args ...interface{}) {
	if logLevel < l.Level() {
		return
	}
	// Writes before the backend is started have nowhere to go and are
	// dropped rather than blocking the writeChan.
	if !l.backend.IsRunning() {
		return
	}

	message := format
	if len(args) > 0 {
		message = fmt.Sprintf(format, args...)
	}
	timestamp := time.Now().Format(messageTimestampFormat)
	logLine := fmt.Sprintf("%s [%s] %s: %s\n", timestamp, logLevel, l.subsystemTag, message)
	l.writeChan <- logEntry{log: []byte(logLine), level: logLevel}
}

// Tracef formats message according to format specifier and writes to the log
// with LevelTrace.
func (l *Logger) Tracef(format string, args ...interface{}) {
	l.write(LevelTrace, format, args...)
}

// Debugf formats message according to format specifier and writes to the log
// with LevelDebug.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.write(LevelDebug, format, args...)
}

// Infof formats message according to format specifier and writes to the log
// with LevelInfo.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.write(LevelInfo, format, args...)
}

// Warnf formats message according to format specifier and writes to the log
// with LevelWarn.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.write(LevelWarn, format, args...)
}

// Errorf formats message according to format specifier and writes to the log
// with LevelError.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.write(LevelError, format, args...)
}

// Criticalf formats message according to format specifier and writes to the
// log with LevelCritical.
func (l *Logger) Criticalf(format string, args ...interface{}) {
	l.write(LevelCritical, format, args...)
}

// IsLevelEnabled returns whether messages on the given level are currently
// written to the log.
func (l *Logger) IsLevelEnabled(level Level) bool {
	return level >= l.Level()
}
