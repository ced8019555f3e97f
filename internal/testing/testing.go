// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/reel/internal/models"
)

// FakeCatalog is a test double for [services.Catalog].
//
// Each method calls the matching func field when set and otherwise returns a generated page or record.
// Calls are recorded as "popular:N", "search:Q:N", "movie:ID", "credits:ID" and "genres".
type FakeCatalog struct {
	PopularFunc func(ctx context.Context, page int) (*models.MoviePage, error)
	SearchFunc  func(ctx context.Context, query string, page int) (*models.MoviePage, error)
	MovieFunc   func(ctx context.Context, id int) (*models.MovieDetails, error)
	CreditsFunc func(ctx context.Context, id int) (*models.Credits, error)
	GenresFunc  func(ctx context.Context) ([]models.Genre, error)

	mu    sync.Mutex
	calls []string
}

func (f *FakeCatalog) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

// Calls returns a copy of the recorded calls in order.
func (f *FakeCatalog) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *FakeCatalog) Popular(ctx context.Context, page int) (*models.MoviePage, error) {
	f.record(fmt.Sprintf("popular:%d", page))
	if f.PopularFunc != nil {
		return f.PopularFunc(ctx, page)
	}
	return MakePage("Popular", page, 20, 5), nil
}

func (f *FakeCatalog) Search(ctx context.Context, query string, page int) (*models.MoviePage, error) {
	f.record(fmt.Sprintf("search:%s:%d", query, page))
	if f.SearchFunc != nil {
		return f.SearchFunc(ctx, query, page)
	}
	return MakePage(query, page, 20, 1), nil
}

func (f *FakeCatalog) Movie(ctx context.Context, id int) (*models.MovieDetails, error) {
	f.record(fmt.Sprintf("movie:%d", id))
	if f.MovieFunc != nil {
		return f.MovieFunc(ctx, id)
	}
	return &models.MovieDetails{
		Movie:   models.Movie{ID: id, Title: fmt.Sprintf("Movie %d", id), ReleaseDate: "1999-10-15", VoteAverage: 8.4},
		Runtime: 139,
		Genres:  []models.Genre{{ID: 18, Name: "Drama"}},
	}, nil
}

func (f *FakeCatalog) Credits(ctx context.Context, id int) (*models.Credits, error) {
	f.record(fmt.Sprintf("credits:%d", id))
	if f.CreditsFunc != nil {
		return f.CreditsFunc(ctx, id)
	}
	return &models.Credits{
		ID:   id,
		Cast: []models.CastMember{{Name: "Lead", Character: "Narrator"}},
		Crew: []models.CrewMember{{Name: "Director Person", Job: "Director"}},
	}, nil
}

func (f *FakeCatalog) Genres(ctx context.Context) ([]models.Genre, error) {
	f.record("genres")
	if f.GenresFunc != nil {
		return f.GenresFunc(ctx)
	}
	return []models.Genre{{ID: 18, Name: "Drama"}, {ID: 28, Name: "Action"}}, nil
}

// MakePage builds a page of n movies titled "<label> <page>-<i>" with ids page*1000+i.
func MakePage(label string, page, n, totalPages int) *models.MoviePage {
	results := make([]models.Movie, n)
	for i := range results {
		results[i] = models.Movie{
			ID:       page*1000 + i,
			Title:    fmt.Sprintf("%s %d-%d", label, page, i),
			GenreIDs: []int{18},
		}
	}
	return &models.MoviePage{Page: page, Results: results, TotalPages: totalPages, TotalResults: n * totalPages}
}

// Gate holds fake calls until a test releases them by key, letting tests choose completion order.
//
// [Gate.Wait] ignores context cancellation so a released call behaves like a response that arrives late.
type Gate struct {
	mu    sync.Mutex
	chans map[string]chan struct{}
}

func (g *Gate) ch(key string) chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.chans == nil {
		g.chans = map[string]chan struct{}{}
	}
	c, ok := g.chans[key]
	if !ok {
		c = make(chan struct{})
		g.chans[key] = c
	}
	return c
}

// Wait blocks until key is released.
func (g *Gate) Wait(key string) { <-g.ch(key) }

// WaitCtx blocks until key is released or ctx is done.
func (g *Gate) WaitCtx(ctx context.Context, key string) error {
	select {
	case <-g.ch(key):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release unblocks every current and future Wait on key. Releasing twice is a no-op.
func (g *Gate) Release(key string) {
	c := g.ch(key)
	g.mu.Lock()
	defer g.mu.Unlock()
	select {
	case <-c:
	default:
		close(c)
	}
}

// MemoryStore is an in-memory preference store.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
	Err    error // returned by every call when set
}

func (m *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", false, m.Err
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if m.values == nil {
		m.values = map[string]string{}
	}
	m.values[key] = value
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
