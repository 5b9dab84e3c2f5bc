package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// Session fetches pages that sit behind a form login. Logging in
// replays the login form the way a browser would: fetch the form, echo
// back every hidden input (the CSRF token among them) together with the
// credentials, and keep the session cookie for later requests.
type Session struct {
	http     *http.Client
	username string
	password string
}

// NewSession returns a Session with an empty cookie jar.
func NewSession(timeout time.Duration, username, password string) (*Session, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: cookie jar: %w", err)
	}
	return &Session{
		http:     &http.Client{Timeout: timeout, Jar: jar},
		username: username,
		password: password,
	}, nil
}

// Login authenticates against the form at loginURL. A response that
// still contains a password field means the server bounced us back to
// the form, which is the only signal these pages give for bad
// credentials.
func (s *Session) Login(ctx context.Context, loginURL string) error {
	page, err := s.get(ctx, loginURL)
	if err != nil {
		return err
	}
	form := url.Values{}
	for name, value := range hiddenInputs(page) {
		form.Set(name, value)
	}
	form.Set("username", s.username)
	form.Set("password", s.password)
	return s.LoginValues(ctx, loginURL, form)
}

// LoginValues posts form to loginURL as-is. It serves pages whose
// login form takes custom field names and no CSRF token; callers fill
// in the credentials themselves.
func (s *Session) LoginValues(ctx context.Context, loginURL string, form url.Values) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, loginURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("fetch: build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.http.Do(req)
	if err != nil {
		if timedOut(err) {
			return fmt.Errorf("fetch: login %s: %v: %w", loginURL, err, ErrTimeout)
		}
		return fmt.Errorf("fetch: login %s: %v: %w", loginURL, err, ErrConnection)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("fetch: read login response: %v: %w", err, ErrConnection)
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("fetch: login %s: status %d: %w", loginURL, resp.StatusCode, ErrAuth)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("fetch: login %s: status %d: %w", loginURL, resp.StatusCode, ErrConnection)
	}
	if hasPasswordField(body) {
		return fmt.Errorf("fetch: login %s: credentials rejected: %w", loginURL, ErrAuth)
	}
	return nil
}

// Username returns the login name the session was built with.
func (s *Session) Username() string { return s.username }

// Password returns the password the session was built with.
func (s *Session) Password() string { return s.password }

// Get fetches url using the session established by Login.
func (s *Session) Get(ctx context.Context, url string) ([]byte, error) {
	body, err := s.get(ctx, url)
	if err != nil {
		return nil, err
	}
	// An expired session lands on the login form instead of the page.
	if hasPasswordField(body) {
		return nil, fmt.Errorf("fetch: get %s: session expired: %w", url, ErrAuth)
	}
	return body, nil
}

func (s *Session) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: build request for %s: %w", url, err)
	}
	resp, err := s.http.Do(req)
	if err != nil {
		if timedOut(err) {
			return nil, fmt.Errorf("fetch: get %s: %v: %w", url, err, ErrTimeout)
		}
		return nil, fmt.Errorf("fetch: get %s: %v: %w", url, err, ErrConnection)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("fetch: get %s: status %d: %w", url, resp.StatusCode, ErrAuth)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch: get %s: status %d: %w", url, resp.StatusCode, ErrConnection)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch: read %s: %v: %w", url, err, ErrConnection)
	}
	return body, nil
}

// hiddenInputs collects every <input type="hidden"> name/value pair.
func hiddenInputs(page []byte) map[string]string {
	out := make(map[string]string)
	z := html.NewTokenizer(bytes.NewReader(page))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return out
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if tok.Data != "input" {
				continue
			}
			var typ, name, value string
			for _, a := range tok.Attr {
				switch a.Key {
				case "type":
					typ = a.Val
				case "name":
					name = a.Val
				case "value":
					value = a.Val
				}
			}
			if typ == "hidden" && name != "" {
				out[name] = value
			}
		}
	}
}

func hasPasswordField(page []byte) bool {
	z := html.NewTokenizer(bytes.NewReader(page))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return false
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if tok.Data != "input" {
				continue
			}
			for _, a := range tok.Attr {
				if a.Key == "type" && a.Val == "password" {
					return true
				}
			}
		}
	}
}
