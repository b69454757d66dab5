package logger

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/mattn/go-isatty"
	log "github.com/sirupsen/logrus"
)

// Logger type is interface for available logging methods.
type Logger interface {
	Trace(...interface{})
	Debug(...interface{})
	Info(...interface{})
	Warn(...interface{})
	Error(...interface{})
	Critical(...interface{})
	Panic(...interface{})
	Fatal(...interface{})
	WithField(key string, value interface{}) Logger
}

const (
	fieldService    = "service"
	fieldSeverity   = "severity"
	fieldStackTrace = "stackTrace"
	severityCrit    = "critical"
)

// LoggerImpl is a struct that extends sirupsen/logrus.
type LoggerImpl struct {
	Logger         *log.Entry
	Service        string
	LogLevelStr    string
	PrintStackDump bool
}

// NewLogger will create a new logger implementation.
// Output goes to stderr as text when it is a terminal, else as JSON for log collectors.
func NewLogger(serviceName string, level string, stackDumpOnPanic bool) *LoggerImpl {
	setOutput(os.Stderr)
	logLevel, err := log.ParseLevel(level)
	if err == nil {
		log.SetLevel(logLevel)
	} else {
		fmt.Println("Error setting up logging: ", err)
		os.Exit(1)
	}
	logger := log.WithFields(log.Fields{
		fieldService: serviceName,
	})
	return &LoggerImpl{Logger: logger, Service: serviceName, LogLevelStr: level, PrintStackDump: stackDumpOnPanic}
}

// NewWebLogger is NewLogger plus a handler that runs before logrus exits on Fatal.
func NewWebLogger(serviceName string, level string, stackDumpOnPanic bool, exitHandlerFn func()) *LoggerImpl {
	l := NewLogger(serviceName, level, stackDumpOnPanic)
	log.RegisterExitHandler(exitHandlerFn)
	return l
}

// WithField returns a copy of the logger that adds key=value to every entry.
func (l *LoggerImpl) WithField(key string, value interface{}) Logger {
	return &LoggerImpl{
		Logger:         l.Logger.WithField(key, value),
		Service:        l.Service,
		LogLevelStr:    l.LogLevelStr,
		PrintStackDump: l.PrintStackDump,
	}
}

// Trace log.
func (l *LoggerImpl) Trace(message ...interface{}) {
	l.Logger.Trace(message...)
}

// Debug log.
func (l *LoggerImpl) Debug(message ...interface{}) {
	l.Logger.Debug(message...)
}

// Info log.
func (l *LoggerImpl) Info(message ...interface{}) {
	l.Logger.Info(message...)
}

// Warn log.
func (l *LoggerImpl) Warn(message ...interface{}) {
	l.Logger.Warn(message...)
}

// Error (with stack trace if the user asked for stack dumps).
func (l *LoggerImpl) Error(message ...interface{}) {
	if l.PrintStackDump {
		l.Logger.WithField(fieldStackTrace, string(debug.Stack())).Error(message...)
	} else {
		l.Logger.Error(message...)
	}
}

// Critical logs at error level with severity=critical.
// Unlike Fatal it never exits, so callers with no further fallback can carry on.
func (l *LoggerImpl) Critical(message ...interface{}) {
	l.Logger.WithField(fieldSeverity, severityCrit).Error(message...)
}

// Panic (with stack trace in debug mode, or if user explicitly sets PrintStackDump).
func (l *LoggerImpl) Panic(message ...interface{}) {
	if l.LogLevelStr == "debug" || l.LogLevelStr == "trace" {
		if l.PrintStackDump {
			l.Logger.WithField(fieldStackTrace, string(debug.Stack())).Panic(message...)
		} else {
			l.Logger.Fatal(message...)
		}
	} else {
		if l.PrintStackDump { // if the user wants a stack dump without having to use debug|trace levels...
			l.Logger.Panic(message...)
		} else { // else log the message and quit without a stack dump...
			l.Logger.Fatal(message...)
		}
	}
}

// Fatal (with stack trace in debug mode).
// This causes exit(1) without a stack dump by default.
// Call Panic() to get a stack dump instead.
func (l *LoggerImpl) Fatal(message ...interface{}) {
	if l.LogLevelStr == "debug" || l.LogLevelStr == "trace" {
		l.Logger.WithField(fieldStackTrace, string(debug.Stack())).Fatal(message...)
	} else {
		l.Logger.Fatal(message...)
	}
}

// SetOutput will set the log output to the Writer supplied.
func (l *LoggerImpl) SetOutput(writer io.Writer) {
	setOutput(writer)
}

// setOutput picks the text formatter for terminals and JSON for everything else.
func setOutput(writer io.Writer) {
	log.SetOutput(writer)
	if f, ok := writer.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		log.SetFormatter(&log.TextFormatter{})
	} else {
		log.SetFormatter(&log.JSONFormatter{})
	}
}
