// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

// Package log provides the structured logger used to report synchronization actions.
package log

import (
	"io"

	"github.com/rs/zerolog"
)

const (
	FormatJSONL = "jsonl"
	FormatText  = "text"
)

// SimpleLogger writes one record per message, either as a JSON line or as human-readable text.
type SimpleLogger struct {
	logger zerolog.Logger
}

func (s *SimpleLogger) event(e *zerolog.Event, msg string, fields ...map[string]interface{}) error {
	for _, f := range fields {
		e = e.Fields(f)
	}
	e.Msg(msg)
	return nil
}

// Log writes msg at the info level with the given fields.
func (s *SimpleLogger) Log(msg string, fields ...map[string]interface{}) error {
	return s.event(s.logger.Info(), msg, fields...)
}

func (s *SimpleLogger) Warn(msg string, fields ...map[string]interface{}) error {
	return s.event(s.logger.Warn(), msg, fields...)
}

func (s *SimpleLogger) Error(msg string, err error, fields ...map[string]interface{}) error {
	return s.event(s.logger.Error().Err(err), msg, fields...)
}

// NewSimpleLogger returns a logger that writes JSON lines to w.
func NewSimpleLogger(w io.Writer) *SimpleLogger {
	return &SimpleLogger{
		logger: zerolog.New(w).With().Timestamp().Logger(),
	}
}

// NewTextLogger returns a logger that writes human-readable lines to w.
func NewTextLogger(w io.Writer) *SimpleLogger {
	return NewSimpleLogger(zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    true,
		TimeFormat: "Jan 02 15:04:05",
	})
}

// NewLogger returns a logger for the given format.
func NewLogger(w io.Writer, format string) *SimpleLogger {
	if format == FormatText {
		return NewTextLogger(w)
	}
	return NewSimpleLogger(w)
}
