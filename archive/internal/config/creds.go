package config

import (
	"fmt"
	"os"

	"github.com/pacswatch/pacswatch/pkg/confutil"
)

// Credentials are never written to the config file. Usernames may be
// stored literally; passwords come from the environment, with an
// interactive prompt as a fallback for hand-run sessions.

// SSHCredentials resolves the login for remote commands. An empty
// config username falls back to SSH_USERNAME.
func (s SSHConfig) SSHCredentials() (user, password string, err error) {
	user = s.Username
	if user == "" {
		user = os.Getenv("SSH_USERNAME")
	}
	if user == "" {
		return "", "", fmt.Errorf("config: ssh username not set (ssh.username or SSH_USERNAME)")
	}
	password, err = confutil.Secret(s.PasswordEnv, "SSH password for "+user)
	if err != nil {
		return "", "", err
	}
	return user, password, nil
}

// WebCredentials resolves the login for the monitoring pages. An empty
// config username falls back to EAWEB_USERNAME.
func (w WebConfig) WebCredentials() (user, password string, err error) {
	user = w.Username
	if user == "" {
		user = os.Getenv("EAWEB_USERNAME")
	}
	if user == "" {
		return "", "", fmt.Errorf("config: web username not set (web.username or EAWEB_USERNAME)")
	}
	password, err = confutil.Secret(w.PasswordEnv, "web password for "+user)
	if err != nil {
		return "", "", err
	}
	return user, password, nil
}
