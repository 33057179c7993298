// logger/logger.go
package logger

import (
	"fmt"
	"log"
	"os"
	"sync"
)

type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

const colorReset = "\033[0m"

var levelInfo = []struct {
	tag   string
	color string
}{
	{"[DEBUG] ", "\033[90m"},
	{"[INFO]  ", colorReset},
	{"[WARN]  ", "\033[33m"},
	{"[ERROR] ", "\033[31m"},
}

type sink struct {
	loggers [4]*log.Logger
}

func newSink(out *os.File, colored bool) *sink {
	s := &sink{}
	flags := log.Ldate | log.Ltime | log.Lshortfile
	for lvl, info := range levelInfo {
		prefix := info.tag
		if colored {
			prefix = info.color + info.tag + colorReset
		}
		s.loggers[lvl] = log.New(out, prefix, flags)
	}
	return s
}

var (
	mu       sync.Mutex
	console  = newSink(os.Stdout, true)
	file     *sink
	logFile  *os.File
	minLevel = DEBUG
)

// Init redirects logging to the given file in addition to the console.
// If filename is empty, logs only to console. If console is false, the
// console sink is disabled.
func Init(filename string, toConsole bool) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
		file = nil
	}

	if filename != "" {
		f, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		logFile = f
		file = newSink(f, false)
	}

	if toConsole {
		console = newSink(os.Stdout, true)
	} else {
		console = nil
	}

	if console == nil && file == nil {
		return fmt.Errorf("no output destination specified")
	}
	return nil
}

// SetLevel sets the minimum log level; messages below it are dropped.
func SetLevel(level LogLevel) {
	mu.Lock()
	defer mu.Unlock()
	minLevel = level
}

// Close closes the log file if one is open.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		logFile.Close()
		logFile = nil
		file = nil
	}
}

func output(level LogLevel, msg string) {
	mu.Lock()
	defer mu.Unlock()
	if level < minLevel {
		return
	}
	if console != nil {
		console.loggers[level].Output(3, msg)
	}
	if file != nil {
		file.loggers[level].Output(3, msg)
	}
}

// Debug logs a debug message.
func Debug(v ...interface{}) { output(DEBUG, fmt.Sprint(v...)) }

// Debugf logs a formatted debug message.
func Debugf(format string, v ...interface{}) { output(DEBUG, fmt.Sprintf(format, v...)) }

// Info logs an info message.
func Info(v ...interface{}) { output(INFO, fmt.Sprint(v...)) }

// Infof logs a formatted info message.
func Infof(format string, v ...interface{}) { output(INFO, fmt.Sprintf(format, v...)) }

// Warn logs a warning message.
func Warn(v ...interface{}) { output(WARN, fmt.Sprint(v...)) }

// Warnf logs a formatted warning message.
func Warnf(format string, v ...interface{}) { output(WARN, fmt.Sprintf(format, v...)) }

// Error logs an error message.
func Error(v ...interface{}) { output(ERROR, fmt.Sprint(v...)) }

// Errorf logs a formatted error message.
func Errorf(format string, v ...interface{}) { output(ERROR, fmt.Sprintf(format, v...)) }

// Fatal logs an error message and exits the program.
func Fatal(v ...interface{}) {
	output(ERROR, fmt.Sprint(v...))
	os.Exit(1)
}

// Fatalf logs a formatted error message and exits the program.
func Fatalf(format string, v ...interface{}) {
	output(ERROR, fmt.Sprintf(format, v...))
	os.Exit(1)
}
