// =================================================================
//
// Work of the U.S. Department of Defense, Defense Digital Service.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package fs

// Logger receives the actions of a Synchronizer.
// When several field maps are given, they are written in order.
type Logger interface {
	Log(msg string, fields ...map[string]interface{}) error
}

// LoggerFunc adapts an ordinary function to the Logger interface.
type LoggerFunc func(msg string, fields ...map[string]interface{}) error

func (f LoggerFunc) Log(msg string, fields ...map[string]interface{}) error {
	return f(msg, fields...)
}
