package logging

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	maxLogSizeMB  = 10
	maxLogBackups = 3
	maxLogAgeDays = 28
)

func New(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Setup installs the default logger. When logFile is set, output is also
// written to a size-rotated file; the returned func closes it.
func Setup(debug bool, logFile string) func() error {
	var w io.Writer = os.Stderr
	closer := func() error { return nil }

	if logFile != "" {
		rotator := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    maxLogSizeMB,
			MaxBackups: maxLogBackups,
			MaxAge:     maxLogAgeDays,
		}
		w = io.MultiWriter(os.Stderr, rotator)
		closer = rotator.Close
	}

	slog.SetDefault(New(w, debug))

	return closer
}
