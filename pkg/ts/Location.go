// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package ts

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseLocation returns the location with the given name.
// Besides "Local" and IANA names, a location can be a fixed offset from UTC
// in hours or in hours and minutes, e.g., "-7", "UTC+2", or "+05:30".
func ParseLocation(location string) (*time.Location, error) {
	if location == "" {
		return nil, errors.New("cannot parse location from empty string")
	}
	if location == "Local" {
		return time.Local, nil
	}
	if offset, ok := parseOffset(strings.TrimPrefix(location, "UTC")); ok {
		return time.FixedZone(location, offset), nil
	}
	loc, err := time.LoadLocation(location)
	if err != nil {
		return nil, fmt.Errorf("unknown location %q: %w", location, err)
	}
	return loc, nil
}

// parseOffset returns the offset in seconds of a string such as "-7" or "+05:30".
func parseOffset(str string) (int, bool) {
	if len(str) == 0 {
		return 0, false
	}
	hoursString, minutesString, hasMinutes := strings.Cut(str, ":")
	hours, err := strconv.Atoi(hoursString)
	if err != nil || hours < -14 || hours > 14 {
		return 0, false
	}
	minutes := 0
	if hasMinutes {
		minutes, err = strconv.Atoi(minutesString)
		if err != nil || minutes < 0 || minutes > 59 {
			return 0, false
		}
	}
	offset := hours*60*60 + minutes*60
	if strings.HasPrefix(hoursString, "-") {
		offset = hours*60*60 - minutes*60
	}
	return offset, true
}
