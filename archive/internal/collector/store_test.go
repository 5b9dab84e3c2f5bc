package collector

import (
	"context"
	"net"
	"testing"
	"time"
)

func TestStoreSource(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()
	port := ln.Addr().(*net.TCPAddr).Port

	src := NewStoreSource("mergeeapri", "127.0.0.1", port, time.Second)
	obs, err := src.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	p := obs["archive_store_status"][0]
	if p.Value != 1 {
		t.Errorf("status with listener = %v, want 1", p.Value)
	}

	ln.Close()
	obs, err = src.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect after close: %v", err)
	}
	if p := obs["archive_store_status"][0]; p.Value != 0 {
		t.Errorf("status without listener = %v, want 0", p.Value)
	}
}
