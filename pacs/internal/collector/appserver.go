package collector

import (
	"context"
	"net/url"

	"github.com/pacswatch/pacswatch/pkg/fetch"
)

// appMonitorClient fetches the application server monitor page, which
// sits behind a plain form login posted to the page itself: no CSRF
// token, custom field names. The login is replayed on every fetch the
// way the page's own frontend does.
type appMonitorClient struct {
	session *fetch.Session
	domain  string
}

func (c *appMonitorClient) Get(ctx context.Context, pageURL string) ([]byte, error) {
	form := url.Values{}
	form.Set("amicasUsername", c.session.Username())
	form.Set("password", c.session.Password())
	form.Set("domain", c.domain)
	if err := c.session.LoginValues(ctx, pageURL, form); err != nil {
		return nil, err
	}
	return c.session.Get(ctx, pageURL)
}

// NewAppServerSource scrapes the authenticated application server
// monitor. Only the shared furniture appears there.
func NewAppServerSource(server, url, domain string, session *fetch.Session) *StatusSource {
	return &StatusSource{
		service: "app-server",
		prefix:  "pacs_as",
		url:     url,
		server:  server,
		client:  &appMonitorClient{session: session, domain: domain},
		common:  true,
	}
}
