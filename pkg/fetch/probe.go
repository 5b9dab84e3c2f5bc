package fetch

import (
	"context"
	"net"
	"strconv"
	"time"
)

// ProbePort reports whether host accepts TCP connections on port.
// It answers yes/no only; a refused, filtered, or timed-out dial all
// read as "down".
func ProbePort(ctx context.Context, host string, port int, timeout time.Duration) bool {
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
