package fetch

import (
	"context"
	"errors"
	"net"
	"os"

	"github.com/pacswatch/pacswatch/pkg/parse"
)

var (
	// ErrConnection marks failures to reach or read from a target.
	ErrConnection = errors.New("connection failed")

	// ErrAuth marks rejected credentials, on any transport.
	ErrAuth = errors.New("authentication failed")

	// ErrTimeout marks an operation that ran out of time.
	ErrTimeout = errors.New("operation timed out")
)

// Classify names the category of err for logs and health labels.
func Classify(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrAuth):
		return "auth"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrConnection):
		return "connection"
	case errors.Is(err, parse.ErrParse):
		return "parse"
	default:
		return "internal"
	}
}

// timedOut reports whether err is any flavor of deadline expiry.
func timedOut(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
