package parse

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrParse marks content that was fetched successfully but does not have the
// expected shape. Callers classify it separately from fetch failures.
var ErrParse = errors.New("unexpected content shape")

// Number converts a status-page cell or command-output field to a float.
// It tolerates the formatting the application pages use: thousands
// separators, a trailing percent sign, and trailing unit suffixes such as
// "MB" or "s" ("1,234 MB" → 1234). The unit itself is discarded; callers
// that need scaling apply it themselves.
func Number(s string) (float64, error) {
	t := strings.TrimSpace(s)
	t = strings.ReplaceAll(t, ",", "")
	t = strings.TrimSuffix(t, "%")

	// Strip a trailing unit: letters (and an optional separating space)
	// after the last digit.
	end := len(t)
	for end > 0 {
		c := t[end-1]
		if c >= '0' && c <= '9' || c == '.' {
			break
		}
		end--
	}
	t = strings.TrimSpace(t[:end])

	if t == "" {
		return 0, fmt.Errorf("parse: %q is not numeric: %w", s, ErrParse)
	}
	v, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return 0, fmt.Errorf("parse: %q is not numeric: %w", s, ErrParse)
	}
	return v, nil
}
