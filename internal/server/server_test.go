package server

import (
	"context"
	"net/http"
	"testing"
	"time"
)

func TestNormalizeAddr(t *testing.T) {
	cases := map[string]string{
		"":               ":8080",
		"9090":           ":9090",
		":9090":          ":9090",
		"127.0.0.1:9090": "127.0.0.1:9090",
	}
	for in, want := range cases {
		if got := normalizeAddr(in); got != want {
			t.Fatalf("normalizeAddr(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRunAndShutdown(t *testing.T) {
	srv := New("127.0.0.1:0", http.NotFoundHandler())
	errc := make(chan error, 1)
	go func() { errc <- srv.Run() }()

	time.Sleep(50 * time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	select {
	case err := <-errc:
		if err != nil {
			t.Fatalf("run returned %v after shutdown", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("run did not return after shutdown")
	}
}
