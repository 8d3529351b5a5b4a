// ABOUTME: Shared logrus logger for the CLI, HTTP API and MCP server
// ABOUTME: Logs go to stderr so stdout stays free for command output and MCP stdio

package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

type Entry = logrus.Entry

// Fields is re-exported so callers need not import logrus directly.
type Fields = logrus.Fields

// Options controls logger setup.
type Options struct {
	Level  string    // debug, info, warn, error; empty means info
	JSON   bool      // JSON lines instead of text
	Output io.Writer // defaults to stderr
}

func init() {
	Log.SetOutput(os.Stderr)
	Log.SetLevel(logrus.WarnLevel)
}

// Init configures the shared logger. DEBUG=true forces debug level.
func Init(opts Options) error {
	if opts.JSON {
		Log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "15:04:05",
		})
	}

	if opts.Output != nil {
		Log.SetOutput(opts.Output)
	} else {
		Log.SetOutput(os.Stderr)
	}

	level := logrus.InfoLevel
	if opts.Level != "" {
		parsed, err := logrus.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return err
		}
		level = parsed
	}
	if os.Getenv("DEBUG") == "true" {
		level = logrus.DebugLevel
	}
	Log.SetLevel(level)
	return nil
}

// WithFields returns an entry on the shared logger.
func WithFields(fields Fields) *Entry {
	return Log.WithFields(fields)
}
