package logger

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

// Init installs the default logger. Debug enables call tracing.
func Init(debug, noColor bool) {
	InitWithWriter(os.Stderr, debug, noColor)
}

// InitWithWriter is Init with an explicit destination
func InitWithWriter(w io.Writer, debug, noColor bool) {
	log.SetDefault(log.NewWithOptions(w,
		log.Options{
			ReportCaller:    debug,
			ReportTimestamp: false,
			TimeFormat:      time.RFC3339,
			Prefix:          "TRAPJS",
		}))

	log.SetLevel(log.WarnLevel)
	if debug {
		log.SetLevel(log.DebugLevel)
	}

	log.SetColorProfile(termenv.ANSI256)
	if noColor {
		log.SetColorProfile(termenv.Ascii)
	}
}
