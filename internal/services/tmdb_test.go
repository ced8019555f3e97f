package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/shared"
	tu "github.com/desertthunder/reel/internal/testing"
)

func newTestService(t *testing.T, baseURL string, client *http.Client) *TMDBService {
	t.Helper()
	srv, err := NewTMDBService(shared.TMDBConfig{BaseURL: baseURL, AccessToken: "test-token", Language: "en-US"}, client, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	return srv
}

func TestTMDBService(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("Missing Token", func(t *testing.T) {
			_, err := NewTMDBService(shared.TMDBConfig{}, nil, nil)
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("Defaults", func(t *testing.T) {
			srv, err := NewTMDBService(shared.TMDBConfig{AccessToken: "abc"}, nil, nil)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if srv.baseURL != tmdbBaseURL {
				t.Errorf("expected default base URL, got %s", srv.baseURL)
			}
			if srv.language != "en-US" {
				t.Errorf("expected en-US, got %s", srv.language)
			}
			if srv.limiter != nil {
				t.Error("expected no limiter without rate_limit")
			}
		})

		t.Run("With Rate Limit", func(t *testing.T) {
			srv, err := NewTMDBService(shared.TMDBConfig{AccessToken: "abc", RateLimit: 0.5}, nil, nil)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if srv.limiter == nil || srv.limiter.Burst() != 1 {
				t.Error("expected limiter with burst 1")
			}
		})
	})

	t.Run("Popular", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/movie/popular" {
				t.Errorf("expected path /movie/popular, got %s", r.URL.Path)
			}
			if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
				t.Errorf("expected bearer token header, got %q", got)
			}
			if got := r.Header.Get("Accept"); got != "application/json" {
				t.Errorf("expected Accept application/json, got %q", got)
			}
			if r.URL.Query().Get("page") != "2" || r.URL.Query().Get("language") != "en-US" {
				t.Errorf("unexpected query %s", r.URL.RawQuery)
			}
			json.NewEncoder(w).Encode(tu.MakePage("Popular", 2, 20, 500))
		}))
		defer server.Close()

		page, err := newTestService(t, server.URL, nil).Popular(context.Background(), 2)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(page.Results) != 20 || page.TotalPages != 500 {
			t.Errorf("unexpected page: %d results, %d total pages", len(page.Results), page.TotalPages)
		}
	})

	t.Run("Search Encodes Query", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/search/movie" {
				t.Errorf("expected path /search/movie, got %s", r.URL.Path)
			}
			if got := r.URL.Query().Get("query"); got != "the dark knight & co" {
				t.Errorf("expected decoded query, got %q", got)
			}
			json.NewEncoder(w).Encode(models.MoviePage{Page: 1, TotalPages: 1, Results: []models.Movie{{ID: 155, Title: "The Dark Knight"}}})
		}))
		defer server.Close()

		page, err := newTestService(t, server.URL, nil).Search(context.Background(), "the dark knight & co", 1)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if page.Results[0].ID != 155 {
			t.Errorf("unexpected result %+v", page.Results[0])
		}
	})

	t.Run("Movie And Credits", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/movie/550":
				w.Write([]byte(`{"id":550,"title":"Fight Club","runtime":139,"spoken_languages":[{"english_name":"English"}]}`))
			case "/movie/550/credits":
				w.Write([]byte(`{"id":550,"cast":[{"name":"Edward Norton","character":"Narrator"}],"crew":[{"name":"David Fincher","job":"Director"}]}`))
			default:
				t.Errorf("unexpected path %s", r.URL.Path)
			}
		}))
		defer server.Close()

		srv := newTestService(t, server.URL, nil)
		details, err := srv.Movie(context.Background(), 550)
		if err != nil {
			t.Fatalf("Movie failed: %v", err)
		}
		if details.Title != "Fight Club" || details.Runtime != 139 || details.Languages() != "English" {
			t.Errorf("unexpected details %+v", details)
		}

		credits, err := srv.Credits(context.Background(), 550)
		if err != nil {
			t.Fatalf("Credits failed: %v", err)
		}
		if credits.Director() != "David Fincher" {
			t.Errorf("expected David Fincher, got %s", credits.Director())
		}
	})

	t.Run("Upstream Status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"status_code":34,"status_message":"The resource you requested could not be found."}`))
		}))
		defer server.Close()

		_, err := newTestService(t, server.URL, nil).Movie(context.Background(), 1)
		if Classify(err) != KindUpstreamStatus {
			t.Fatalf("expected upstream status kind, got %q (%v)", Classify(err), err)
		}

		var statusErr *StatusError
		if !errors.As(err, &statusErr) || statusErr.StatusCode != 404 {
			t.Fatalf("expected StatusError 404, got %v", err)
		}
		if statusErr.Message == "" {
			t.Error("expected status_message to be captured")
		}
		if !errors.Is(err, shared.ErrMovieNotFound) || !errors.Is(err, shared.ErrAPIRequest) {
			t.Error("expected error to match ErrMovieNotFound and ErrAPIRequest")
		}
	})

	t.Run("Transport Failure", func(t *testing.T) {
		client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection reset"))}

		_, err := newTestService(t, "http://example.com", client).Popular(context.Background(), 1)
		if Classify(err) != KindTransport {
			t.Errorf("expected transport kind, got %q (%v)", Classify(err), err)
		}
	})

	t.Run("Body Read Failure", func(t *testing.T) {
		client := &http.Client{Transport: tu.NewMockRoundTripper(&http.Response{
			StatusCode: http.StatusOK,
			Body:       &tu.FCloser{},
			Header:     http.Header{},
		}, nil)}

		_, err := newTestService(t, "http://example.com", client).Genres(context.Background())
		if Classify(err) != KindTransport {
			t.Errorf("expected transport kind, got %q (%v)", Classify(err), err)
		}
	})

	t.Run("Cancelled", func(t *testing.T) {
		var hits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := newTestService(t, server.URL, nil).Popular(ctx, 1)
		if !IsCancelled(err) {
			t.Fatalf("expected cancelled, got %q (%v)", Classify(err), err)
		}
		if !errors.Is(err, ErrCancelled) || errors.Is(err, shared.ErrAPIRequest) {
			t.Error("cancelled error should match ErrCancelled only")
		}
		if UserMessage(err) != "" {
			t.Error("cancelled error should have no user message")
		}
	})

	t.Run("Genres", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"genres":[{"id":28,"name":"Action"},{"id":18,"name":"Drama"}]}`))
		}))
		defer server.Close()

		genres, err := newTestService(t, server.URL, nil).Genres(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(genres) != 2 || genres[0].Name != "Action" {
			t.Errorf("unexpected genres %+v", genres)
		}
	})
}
