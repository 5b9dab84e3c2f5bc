package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const loginForm = `<html><body><form method="post" action="/login">
<input type="hidden" name="_csrf" value="%s"/>
<input type="text" name="username"/>
<input type="password" name="password"/>
</form></body></html>`

// newLoginServer serves a CSRF-protected login form and a status page
// that requires the session cookie issued on successful login.
func newLoginServer(t *testing.T) *httptest.Server {
	t.Helper()
	const token = "tok-8f3a"
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			fmt.Fprintf(w, loginForm, token)
			return
		}
		if r.FormValue("_csrf") != token {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		if r.FormValue("username") != "admin" || r.FormValue("password") != "letmein" {
			// Bad credentials re-render the form with a 200, like the
			// real pages do.
			fmt.Fprintf(w, loginForm, token)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: "sess-1"})
		w.Write([]byte("<html><body>welcome</body></html>"))
	})
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie("JSESSIONID")
		if err != nil || c.Value != "sess-1" {
			fmt.Fprintf(w, loginForm, token)
			return
		}
		w.Write([]byte("<html><body><table><tr><th>Queue</th><th>Length</th></tr><tr><td>main</td><td>3</td></tr></table></body></html>"))
	})
	return httptest.NewServer(mux)
}

func TestSessionLoginAndGet(t *testing.T) {
	srv := newLoginServer(t)
	defer srv.Close()

	s, err := NewSession(time.Second, "admin", "letmein")
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := s.Login(ctx, srv.URL+"/login"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	body, err := s.Get(ctx, srv.URL+"/status")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if want := "Queue"; !strings.Contains(string(body), want) {
		t.Errorf("status body %q missing %q", body, want)
	}
}

func TestSessionLogin_BadCredentials(t *testing.T) {
	srv := newLoginServer(t)
	defer srv.Close()

	s, err := NewSession(time.Second, "admin", "wrong")
	if err != nil {
		t.Fatal(err)
	}
	err = s.Login(context.Background(), srv.URL+"/login")
	if !errors.Is(err, ErrAuth) {
		t.Fatalf("Login error = %v, want ErrAuth", err)
	}
}

func TestSessionGet_WithoutLogin(t *testing.T) {
	srv := newLoginServer(t)
	defer srv.Close()

	s, err := NewSession(time.Second, "admin", "letmein")
	if err != nil {
		t.Fatal(err)
	}
	_, err = s.Get(context.Background(), srv.URL+"/status")
	if !errors.Is(err, ErrAuth) {
		t.Fatalf("Get error = %v, want ErrAuth", err)
	}
}

func TestHiddenInputs(t *testing.T) {
	page := []byte(fmt.Sprintf(loginForm, "abc123"))
	got := hiddenInputs(page)
	if got["_csrf"] != "abc123" {
		t.Errorf("hiddenInputs = %v, want _csrf=abc123", got)
	}
	if len(got) != 1 {
		t.Errorf("hiddenInputs picked up %d inputs, want 1: %v", len(got), got)
	}
}
