// Package logger centralizes logging behind a small leveled API.
//
// Verbosity levels (in increasing order):
//
//	Error < Info < Debug < Trace
//
// Output goes through logrus so the rest of the codebase never formats
// or filters log lines itself.
//
// Example usage:
//
//	logger.SetVerbosity(2) // Debug
//	logger.Infof("pricing started")
//	logger.Debugf("spot=%f vol=%f", spot, vol)
package logger

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

// Verbosity levels accepted by SetVerbosity.
const (
	Error = iota // critical failures only
	Info         // high-level application progress
	Debug        // detailed diagnostic information
	Trace        // very fine-grained execution details
)

func init() {
	// Logs go to stderr so normal program output (tables, prices) stays
	// clean on stdout for CLI use and pipelines.
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006/01/02 15:04:05",
	})
	log.SetLevel(log.InfoLevel)
}

// SetVerbosity maps the numeric verbosity used in configs and flags onto
// a logrus level. Typically called once during startup.
func SetVerbosity(v int) {
	switch {
	case v <= Error:
		log.SetLevel(log.ErrorLevel)
	case v == Info:
		log.SetLevel(log.InfoLevel)
	case v == Debug:
		log.SetLevel(log.DebugLevel)
	default:
		log.SetLevel(log.TraceLevel)
	}
}

// SetOutput redirects log output, e.g. to a file. Tests use this to
// silence logging.
func SetOutput(w io.Writer) {
	log.SetOutput(w)
}

// Errorf logs an error-level message.
func Errorf(format string, args ...any) {
	log.Errorf(format, args...)
}

// Infof logs an informational message.
func Infof(format string, args ...any) {
	log.Infof(format, args...)
}

// Debugf logs debugging information.
func Debugf(format string, args ...any) {
	log.Debugf(format, args...)
}

// Tracef logs very detailed execution traces. Use sparingly.
func Tracef(format string, args ...any) {
	log.Tracef(format, args...)
}
