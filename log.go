package scriptgate

import (
	"os"
	"sync"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"zliu.org/goutil/rest"
)

var (
	zlog *zerolog.Logger
	once sync.Once
)

func GetZlog() *zerolog.Logger {
	once.Do(func() {
		if zlog == nil {
			zlog = rest.Log()
		}
	})
	return zlog
}

// SetZlog replaces the package logger. Call it before serving.
func SetZlog(l *zerolog.Logger) {
	zlog = l
	once.Do(func() {})
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ConsoleLogger returns a human readable logger writing to stderr.
func ConsoleLogger() *zerolog.Logger {
	l := zerolog.New(zerolog.ConsoleWriter{
		Out:        colorable.NewColorableStderr(),
		TimeFormat: time.Kitchen,
	}).With().Timestamp().Logger()
	return &l
}
