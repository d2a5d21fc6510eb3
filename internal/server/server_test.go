package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testServer(t *testing.T) *Server {
	t.Helper()

	price := decimal.RequireFromString("12.50")
	dashboard := services.NewDashboard([]models.OrderRecord{{
		Date:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Category:    "Bikes",
		ProductName: "Road-150",
		Quantity:    2,
		Price:       price,
		Region:      "Europe",
		Revenue:     price.Mul(decimal.NewFromInt(2)),
	}})

	srv, err := NewServer(dashboard, config.UIConfig{Title: "T", Heading: "H"}, testLogger())
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	return srv
}

func TestServer_Routes(t *testing.T) {
	srv := testServer(t)

	tests := []struct {
		name     string
		method   string
		path     string
		wantCode int
		wantType string
	}{
		{"dashboard", http.MethodGet, "/", http.StatusOK, "text/html"},
		{"static script", http.MethodGet, "/static/charts.js", http.StatusOK, "javascript"},
		{"static stylesheet", http.MethodGet, "/static/dashboard.css", http.StatusOK, "text/css"},
		{"health", http.MethodGet, "/health", http.StatusOK, "application/json"},
		{"stats", http.MethodGet, "/admin/stats", http.StatusOK, "application/json"},
		{"categories", http.MethodGet, "/api/categories", http.StatusOK, "application/json"},
		{"charts", http.MethodGet, "/api/charts?category=Bikes", http.StatusOK, "application/json"},
		{"aggregates", http.MethodGet, "/api/aggregates", http.StatusOK, "application/json"},
		{"sse charts", http.MethodGet, "/sse/charts", http.StatusOK, "text/event-stream"},
		{"unknown page", http.MethodGet, "/missing", http.StatusNotFound, "application/json"},
		{"missing static", http.MethodGet, "/static/nope.js", http.StatusNotFound, ""},
		{"wrong method", http.MethodPost, "/api/charts", http.StatusMethodNotAllowed, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()
			srv.ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Errorf("%s %s: expected status %d, got %d", tt.method, tt.path, tt.wantCode, w.Code)
			}
			if tt.wantType != "" && !strings.Contains(w.Header().Get("Content-Type"), tt.wantType) {
				t.Errorf("%s %s: content-type %q should contain %q", tt.method, tt.path, w.Header().Get("Content-Type"), tt.wantType)
			}
		})
	}
}

func TestGracefulServer_ShutdownWaitsForInFlightRequest(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	finished := make(chan struct{})

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
		w.WriteHeader(http.StatusOK)
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	httpServer := &http.Server{Handler: handler}
	go func() { _ = httpServer.Serve(ln) }()

	go func() {
		defer close(finished)
		resp, err := http.Get("http://" + ln.Addr().String())
		if err == nil {
			resp.Body.Close()
		}
	}()
	<-started

	gs := NewGracefulServer(httpServer, testLogger(), config.ServerConfig{ShutdownTimeout: 5 * time.Second})
	shutdownErr := make(chan error, 1)
	go func() { shutdownErr <- gs.Shutdown(context.Background()) }()

	select {
	case <-shutdownErr:
		t.Fatal("Shutdown returned while a request was still running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	if err := <-shutdownErr; err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
	<-finished
}

func TestGracefulServer_ShutdownDeadline(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	started := make(chan struct{})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	httpServer := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
	})}
	go func() { _ = httpServer.Serve(ln) }()
	go func() {
		if resp, err := http.Get("http://" + ln.Addr().String()); err == nil {
			resp.Body.Close()
		}
	}()
	<-started

	gs := NewGracefulServer(httpServer, testLogger(), config.ServerConfig{ShutdownTimeout: time.Millisecond})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := gs.Shutdown(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Shutdown() error = %v, want context.DeadlineExceeded", err)
	}
}

func TestGracefulServer_ListenAndServeStopsOnCancel(t *testing.T) {
	httpServer := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}
	gs := NewGracefulServer(httpServer, testLogger(), config.ServerConfig{ShutdownTimeout: time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- gs.ListenAndServe(ctx) }()

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("ListenAndServe did not return after cancel")
	}
}
