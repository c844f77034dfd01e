package server

import (
	"net/http"
	"testing"
	"time"

	"github.com/qnetlab/topoforge/pkg/logging"
)

func TestShutdownIdempotent(t *testing.T) {
	gs := NewGracefulServer(":0", http.NewServeMux(), logging.NewNopLogger())

	if gs.IsShuttingDown() {
		t.Fatal("fresh server should not be shutting down")
	}

	if err := gs.Shutdown(time.Second); err != nil {
		t.Fatalf("first shutdown: %v", err)
	}
	if err := gs.Shutdown(time.Second); err != nil {
		t.Fatalf("second shutdown: %v", err)
	}

	if !gs.IsShuttingDown() {
		t.Error("expected shutdown state")
	}

	select {
	case <-gs.ShutdownChannel():
	default:
		t.Error("shutdown channel should be closed")
	}
}

func TestStartReturnsAfterShutdown(t *testing.T) {
	gs := NewGracefulServer("127.0.0.1:0", http.NewServeMux(), logging.NewNopLogger())

	done := make(chan error, 1)
	go func() { done <- gs.Start() }()

	time.Sleep(50 * time.Millisecond)
	if err := gs.Shutdown(time.Second); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("start returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("start did not return after shutdown")
	}
}
