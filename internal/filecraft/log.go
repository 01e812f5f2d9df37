package filecraft

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger constructs the logger described by the configuration, writing to
// w. The text format is meant for terminals, json for log collectors.
func (c *Config) NewLogger(w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		return zerolog.Nop(), err
	}
	if c.Log.Format == "text" {
		w = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}
