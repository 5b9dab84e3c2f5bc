package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pacswatch/pacswatch/pkg/fetch"
)

func TestAppServerSource(t *testing.T) {
	// The monitor page accepts a credential POST on itself and then
	// serves the page to the session cookie. No CSRF token involved.
	var gotUser, gotDomain string
	mux := http.NewServeMux()
	mux.HandleFunc("/servlet/AppServerMonitor", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			gotUser = r.FormValue("amicasUsername")
			gotDomain = r.FormValue("domain")
			if r.FormValue("password") != "pw" {
				w.Write([]byte(`<form><input type="password" name="password"/></form>`))
				return
			}
			http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: "as1"})
			w.Write([]byte("<html><body>ok</body></html>"))
			return
		}
		if c, err := r.Cookie("JSESSIONID"); err != nil || c.Value != "as1" {
			w.Write([]byte(`<form><input type="password" name="password"/></form>`))
			return
		}
		w.Write([]byte(furniture + "</body></html>"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	session, err := fetch.NewSession(time.Second, "monitor", "pw")
	if err != nil {
		t.Fatal(err)
	}
	src := NewAppServerSource("pacs01", srv.URL+"/servlet/AppServerMonitor", "hospital", session)

	obs, err := src.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if gotUser != "monitor" || gotDomain != "hospital" {
		t.Errorf("login posted user=%q domain=%q", gotUser, gotDomain)
	}
	if p := single(t, obs, "pacs_as_service_status"); p.Value != 1 {
		t.Errorf("status = %v, want 1", p.Value)
	}
	if p := point(t, obs, "pacs_as_database_connections", map[string]string{"state": "active"}); p.Value != 2 {
		t.Errorf("active connections = %v, want 2", p.Value)
	}
}

func TestAppServerSource_BadCredentials(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/servlet/AppServerMonitor", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<form><input type="password" name="password"/></form>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	session, err := fetch.NewSession(time.Second, "monitor", "nope")
	if err != nil {
		t.Fatal(err)
	}
	src := NewAppServerSource("pacs01", srv.URL+"/servlet/AppServerMonitor", "hospital", session)

	obs, err := src.Collect(context.Background())
	if fetch.Classify(err) != "auth" {
		t.Fatalf("error = %v, want auth classification", err)
	}
	if p := single(t, obs, "pacs_as_service_status"); p.Value != 0 {
		t.Errorf("status on auth failure = %v, want 0", p.Value)
	}
}
