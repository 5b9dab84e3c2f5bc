package fetch

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"
)

// Runner executes commands on a remote host over SSH. Each Run dials a
// fresh connection; the hosts involved are few and polled on the order
// of seconds, so connection reuse is not worth the reconnect logic.
type Runner struct {
	Host           string
	Port           int
	User           string
	Password       string
	ConnectTimeout time.Duration
	ExecTimeout    time.Duration
}

// Run executes command on the remote host and returns its combined
// stdout. The dial is bounded by ConnectTimeout and the command itself
// by ExecTimeout, so one wedged host cannot stall a whole poll cycle.
func (r *Runner) Run(ctx context.Context, command string) (string, error) {
	addr := net.JoinHostPort(r.Host, fmt.Sprint(r.Port))
	cfg := &ssh.ClientConfig{
		User:            r.User,
		Auth:            []ssh.AuthMethod{ssh.Password(r.Password)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         r.ConnectTimeout,
	}
	client, err := ssh.Dial("tcp", addr, cfg)
	if err != nil {
		if strings.Contains(err.Error(), "unable to authenticate") {
			return "", fmt.Errorf("fetch: ssh %s: %v: %w", addr, err, ErrAuth)
		}
		if timedOut(err) {
			return "", fmt.Errorf("fetch: ssh %s: %v: %w", addr, err, ErrTimeout)
		}
		return "", fmt.Errorf("fetch: ssh %s: %v: %w", addr, err, ErrConnection)
	}
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return "", fmt.Errorf("fetch: ssh %s: open session: %v: %w", addr, err, ErrConnection)
	}
	defer session.Close()

	execCtx := ctx
	if r.ExecTimeout > 0 {
		var cancel context.CancelFunc
		execCtx, cancel = context.WithTimeout(ctx, r.ExecTimeout)
		defer cancel()
	}

	type result struct {
		out []byte
		err error
	}
	done := make(chan result, 1)
	go func() {
		out, err := session.Output(command)
		done <- result{out, err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return "", fmt.Errorf("fetch: ssh %s: run %q: %v: %w",
				addr, command, res.err, ErrConnection)
		}
		return string(res.out), nil
	case <-execCtx.Done():
		// Closing the client unblocks session.Output; the goroutine
		// then exits through the buffered channel.
		client.Close()
		if execCtx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("fetch: ssh %s: run %q: %w", addr, command, ErrTimeout)
		}
		return "", execCtx.Err()
	}
}
