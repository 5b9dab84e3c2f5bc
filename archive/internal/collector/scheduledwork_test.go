package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pacswatch/pacswatch/pkg/fetch"
	"github.com/pacswatch/pacswatch/pkg/registry"
)

const workLoginForm = `<html><body><form method="post" action="/login">
<input type="hidden" name="_csrf" value="tok-1"/>
<input type="text" name="username"/>
<input type="password" name="password"/>
</form></body></html>`

const workTable = `<html><body>
<h2>Scheduled Work Summary</h2>
<table>
<tr><th>Component</th><th>Task Name</th><th>Status</th><th>Count</th></tr>
<tr><td>ImageProcessor</td><td>CompressStudy</td><td>Pending</td><td>12</td></tr>
<tr><td>ImageProcessor</td><td>CompressStudy</td><td>Failed</td><td>2</td></tr>
<tr><td>Router</td><td>ForwardStudy</td><td>Pending</td><td>0</td></tr>
<tr><td>Router</td><td>ForwardStudy</td><td>Pending</td><td>n/a</td></tr>
</table>
</body></html>`

// newMonitorServer mimics the monitoring site: CSRF login form, then a
// scheduled-work page for holders of the session cookie.
func newMonitorServer(workPage string) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(workLoginForm))
			return
		}
		if r.FormValue("_csrf") != "tok-1" || r.FormValue("password") != "pw" {
			w.Write([]byte(workLoginForm))
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: "s1"})
		w.Write([]byte("<html><body>ok</body></html>"))
	})
	mux.HandleFunc("/monitor", func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("JSESSIONID"); err != nil || c.Value != "s1" {
			w.Write([]byte(workLoginForm))
			return
		}
		w.Write([]byte(workPage))
	})
	return httptest.NewServer(mux)
}

func newWorkSource(t *testing.T, srv *httptest.Server) *WorkSource {
	t.Helper()
	session, err := fetch.NewSession(time.Second, "merge", "pw")
	if err != nil {
		t.Fatal(err)
	}
	return NewWorkSource("mergeeapri", srv.URL+"/login", srv.URL+"/monitor", session)
}

func pointFor(points []registry.Point, name, status string) (registry.Point, bool) {
	for _, p := range points {
		if p.Labels["queue_name"] == name && p.Labels["status"] == status {
			return p, true
		}
	}
	return registry.Point{}, false
}

func TestWorkSource(t *testing.T) {
	srv := newMonitorServer(workTable)
	defer srv.Close()

	src := newWorkSource(t, srv)
	obs, err := src.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	points := obs["archive_swe_queue_length"]
	// The n/a row is skipped; the other three survive.
	if len(points) != 3 {
		t.Fatalf("points = %d, want 3: %v", len(points), points)
	}
	p, ok := pointFor(points, "ImageProcessor/CompressStudy", "Failed")
	if !ok || p.Value != 2 {
		t.Errorf("failed compress point = %+v, ok=%v, want value 2", p, ok)
	}
	if p, ok := pointFor(points, "Router/ForwardStudy", "Pending"); !ok || p.Value != 0 {
		t.Errorf("router point = %+v, ok=%v, want value 0", p, ok)
	}
	if p.Labels["peer"] != "mergeeapri" {
		t.Errorf("peer label = %q", p.Labels["peer"])
	}
}

func TestWorkSource_NoTable(t *testing.T) {
	srv := newMonitorServer("<html><body><h2>Scheduled Work Summary</h2><p>Nothing scheduled.</p></body></html>")
	defer srv.Close()

	src := newWorkSource(t, srv)
	obs, err := src.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(obs) != 0 {
		t.Errorf("missing table should yield no families, got %v", obs)
	}
}

func TestWorkSource_BadCredentials(t *testing.T) {
	srv := newMonitorServer(workTable)
	defer srv.Close()

	session, err := fetch.NewSession(time.Second, "merge", "wrong")
	if err != nil {
		t.Fatal(err)
	}
	src := NewWorkSource("p", srv.URL+"/login", srv.URL+"/monitor", session)
	_, err = src.Collect(context.Background())
	if fetch.Classify(err) != "auth" {
		t.Fatalf("error = %v, want auth classification", err)
	}
}

func TestWorkSource_SessionExpiry(t *testing.T) {
	// The server drops the session after login; the source must log in
	// again and still return data on the same Collect.
	logins := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(workLoginForm))
			return
		}
		logins++
		http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: fmt.Sprint("s", logins)})
		w.Write([]byte("<html><body>ok</body></html>"))
	})
	mux.HandleFunc("/monitor", func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie("JSESSIONID")
		if err != nil || c.Value != "s2" {
			w.Write([]byte(workLoginForm))
			return
		}
		w.Write([]byte(workTable))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	src := newWorkSource(t, srv)
	obs, err := src.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if logins != 2 {
		t.Errorf("logins = %d, want 2 (initial plus re-login)", logins)
	}
	if len(obs["archive_swe_queue_length"]) != 3 {
		t.Errorf("points after re-login = %d, want 3", len(obs["archive_swe_queue_length"]))
	}
}
