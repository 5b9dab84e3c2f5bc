package confutil

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// Secret reads env, prompting on the terminal when the variable is
// unset and stdin is interactive. Running headless with the variable
// unset is a configuration error. Secrets never live in config files.
func Secret(env, prompt string) (string, error) {
	if env != "" {
		if v := os.Getenv(env); v != "" {
			return v, nil
		}
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("config: %s not set and no terminal to prompt on", env)
	}
	fmt.Fprintf(os.Stderr, "%s: ", prompt)
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("config: read password: %w", err)
	}
	pw := strings.TrimSpace(string(raw))
	if pw == "" {
		return "", fmt.Errorf("config: empty password entered")
	}
	return pw, nil
}
