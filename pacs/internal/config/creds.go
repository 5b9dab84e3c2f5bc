package config

import (
	"fmt"
	"os"

	"github.com/pacswatch/pacswatch/pkg/confutil"
)

// AppCredentials resolves the application server login. The username
// may live in the config file; the password comes from the environment
// or an interactive prompt.
func (a AppConfig) AppCredentials() (user, password string, err error) {
	user = a.Username
	if user == "" {
		user = os.Getenv("PACS_APP_USERNAME")
	}
	if user == "" {
		return "", "", fmt.Errorf("config: app username not set (app.username or PACS_APP_USERNAME)")
	}
	password, err = confutil.Secret(a.PasswordEnv, "application password for "+user)
	if err != nil {
		return "", "", err
	}
	return user, password, nil
}
