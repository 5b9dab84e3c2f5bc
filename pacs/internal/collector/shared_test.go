package collector

import "testing"

func TestExtractCommon(t *testing.T) {
	b := newBatch("pacs_msgs", "pacs01")
	extractCommon([]byte(furniture), b)

	if p := point(t, b.obs, "pacs_msgs_database_connections", map[string]string{"state": "active"}); p.Value != 2 {
		t.Errorf("active connections = %v, want total minus idle = 2", p.Value)
	}
	if p := point(t, b.obs, "pacs_msgs_database_connections", map[string]string{"state": "idle"}); p.Value != 3 {
		t.Errorf("idle connections = %v, want 3", p.Value)
	}

	up := single(t, b.obs, "pacs_msgs_uptime_hours")
	want := 2 + 30.0/60 + 15.0/3600
	if up.Value != want {
		t.Errorf("uptime = %v, want %v", up.Value, want)
	}
	if up.Labels["server"] != "pacs01" {
		t.Errorf("server label = %q", up.Labels["server"])
	}

	if p := point(t, b.obs, "pacs_msgs_memory_current_mb", map[string]string{"area": "java"}); p.Value != 512 {
		t.Errorf("java current = %v, want 512", p.Value)
	}
	if p := point(t, b.obs, "pacs_msgs_memory_peak_mb", map[string]string{"area": "process"}); p.Value != 1600 {
		t.Errorf("process peak = %v, want 1600", p.Value)
	}
}

func TestExtractCommon_ShortUptime(t *testing.T) {
	b := newBatch("pacs_ws", "s")
	extractCommon([]byte("<p>up time: 42 s</p>"), b)
	up := single(t, b.obs, "pacs_ws_uptime_hours")
	if want := 42.0 / 3600; up.Value != want {
		t.Errorf("uptime = %v, want %v", up.Value, want)
	}
}

func TestExtractCommon_MissingPatterns(t *testing.T) {
	b := newBatch("pacs_ws", "s")
	extractCommon([]byte("<html><body>nothing recognizable</body></html>"), b)
	if len(b.obs) != 0 {
		t.Errorf("unmatched furniture should add nothing, got %v", b.obs)
	}
}
