package connectivity_test

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rogerio-castellano/catalog-sync/internal/config"
	"github.com/rogerio-castellano/catalog-sync/internal/connectivity"
)

func TestTargetFromURL(t *testing.T) {
	tests := []struct {
		raw      string
		host     string
		port     int
		hasError bool
	}{
		{"https://app.getswipe.in/api/", "app.getswipe.in", 443, false},
		{"http://localhost/api", "localhost", 80, false},
		{"http://127.0.0.1:8081/", "127.0.0.1", 8081, false},
		{"not a url", "", 0, true},
	}
	for _, tt := range tests {
		host, port, err := connectivity.TargetFromURL(tt.raw)
		if (err != nil) != tt.hasError {
			t.Errorf("%q: unexpected error %v", tt.raw, err)
			continue
		}
		if host != tt.host || port != tt.port {
			t.Errorf("%q: expected %s:%d, got %s:%d", tt.raw, tt.host, tt.port, host, port)
		}
	}
}

func TestProbe(t *testing.T) {
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(ok.Close)
	portal := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/login", http.StatusFound)
	}))
	t.Cleanup(portal.Close)

	// a port nobody listens on
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	closedPort := l.Addr().(*net.TCPAddr).Port
	l.Close()

	tests := []struct {
		name     string
		baseURL  string
		validate string
		want     bool
	}{
		{"reachable", ok.URL, "", true},
		{"reachable and validated", ok.URL, ok.URL + "/generate_204", true},
		{"captive portal", ok.URL, portal.URL + "/login-required", false},
		{"unreachable", "http://127.0.0.1:" + strconv.Itoa(closedPort), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := connectivity.NewProbe(config.ConnectivityConfig{
				ValidateURL: tt.validate,
				Timeout:     time.Second,
			}, tt.baseURL)
			if err != nil {
				t.Fatalf("new probe: %v", err)
			}
			if got := p.IsConnected(context.Background()); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestWatcherPublishesOnlyChanges(t *testing.T) {
	checker := connectivity.NewStatic(false)
	w := connectivity.NewWatcher(checker, time.Hour)

	var reconnects atomic.Int32
	w.OnReconnect(func(context.Context) { reconnects.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := w.Observe(ctx)
	if v := <-ch; v {
		t.Fatal("expected initial offline status")
	}

	steps := []bool{false, true, true, false, true}
	for _, s := range steps {
		checker.Set(s)
		w.Check(ctx)
	}

	if n := reconnects.Load(); n != 2 {
		t.Errorf("expected 2 reconnects, got %d", n)
	}
	if !w.Connected() {
		t.Error("expected connected after last step")
	}
}

func TestWatcherRunChecksImmediatelyAndClosesObservers(t *testing.T) {
	w := connectivity.NewWatcher(connectivity.NewStatic(true), time.Hour)
	reconnected := make(chan struct{}, 1)
	w.OnReconnect(func(context.Context) { reconnected <- struct{}{} })

	obsCtx, obsCancel := context.WithCancel(context.Background())
	defer obsCancel()
	ch := w.Observe(obsCtx)
	<-ch

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	select {
	case <-reconnected:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a reconnect on the first poll")
	}
	select {
	case v := <-ch:
		if !v {
			t.Fatal("expected online status")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("status change not published")
	}

	cancel()
	<-done
	if _, ok := <-ch; ok {
		t.Error("expected observer channel closed after Run returns")
	}
}
