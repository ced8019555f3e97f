package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

type fakeFavorites struct {
	ids []int
	err error
}

func (f fakeFavorites) List(ctx context.Context) ([]int, error) { return f.ids, f.err }

func TestRouter(t *testing.T) {
	logger := log.New(io.Discard)

	t.Run("health ok", func(t *testing.T) {
		r := NewRouter(logger, map[string]Pinger{"store": PingFunc(func(context.Context) error { return nil })}, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var body HealthResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if body.Status != "ok" || body.Checks["store"] != "ok" {
			t.Errorf("unexpected body %+v", body)
		}
	})

	t.Run("health degraded", func(t *testing.T) {
		r := NewRouter(logger, map[string]Pinger{"store": PingFunc(func(context.Context) error { return errors.New("down") })}, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("expected 503, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "down") {
			t.Errorf("expected check error in body, got %s", rec.Body.String())
		}
	})

	t.Run("metrics", func(t *testing.T) {
		r := NewRouter(logger, nil, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "go_goroutines") {
			t.Error("expected default collectors in metrics output")
		}
	})

	t.Run("method not allowed", func(t *testing.T) {
		r := NewRouter(logger, nil, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/health", nil))

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})

	t.Run("favorites", func(t *testing.T) {
		r := NewRouter(logger, nil, fakeFavorites{ids: []int{550, 13}})
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/favorites", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"count":2`) {
			t.Errorf("unexpected body %s", rec.Body.String())
		}
	})

	t.Run("favorites error", func(t *testing.T) {
		r := NewRouter(logger, nil, fakeFavorites{err: errors.New("boom")})
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/favorites", nil))

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
	})
}

func TestMiddlewareOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	r := NewBasicRouter()
	r.Use(mark("first"), mark("second"))
	r.HandleFunc(http.MethodGet, "/", func(w http.ResponseWriter, r *http.Request) {})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if strings.Join(order, ",") != "first,second" {
		t.Errorf("expected first,second got %v", order)
	}
}

func TestRecover(t *testing.T) {
	h := Recover(log.New(io.Discard))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}

func TestServe_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, "127.0.0.1:0", http.NotFoundHandler(), log.New(io.Discard)) }()

	cancel()
	if err := <-done; err != nil {
		t.Errorf("expected clean shutdown, got %v", err)
	}
}
