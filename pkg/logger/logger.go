package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/labstack/gommon/log"
)

var std *log.Logger

func init() {
	std = log.New("market")
	// gommon resolves ${short_file} at a fixed depth, which lands inside this
	// package, so the caller is prefixed by the helpers below instead.
	std.SetHeader("${time_rfc3339} ${level}")
	std.SetOutput(os.Stdout)
	if os.Getenv("ENVIRONMENT") == "development" {
		std.SetLevel(log.DEBUG)
	} else {
		std.SetLevel(log.INFO)
	}
}

// Std returns the shared logger so the echo server logs through the same sink.
func Std() *log.Logger {
	return std
}

func SetOutput(w io.Writer) {
	std.SetOutput(w)
}

func SetDebug(enabled bool) {
	if enabled {
		std.SetLevel(log.DEBUG)
		return
	}
	std.SetLevel(log.INFO)
}

// caller returns "file.go:line" of the code that called the package helper.
func caller() string {
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		return "???:0"
	}
	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}

func Info(format string, v ...interface{}) {
	std.Infof(caller()+" "+format, v...)
}

func Error(format string, v ...interface{}) {
	std.Errorf(caller()+" "+format, v...)
}

func Debug(format string, v ...interface{}) {
	std.Debugf(caller()+" "+format, v...)
}

func Warn(format string, v ...interface{}) {
	std.Warnf(caller()+" "+format, v...)
}
