package formatter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/shared"
	th "github.com/desertthunder/reel/internal/testing"
)

type fixedGenre string

func (g fixedGenre) Primary(models.Movie) string { return string(g) }

func testMovies() []models.Movie {
	return []models.Movie{
		{ID: 550, Title: "Fight Club", ReleaseDate: "1999-10-15", VoteAverage: 8.4, PosterPath: "/fc.jpg", GenreIDs: []int{18}},
		{ID: 13, Title: "Forrest Gump, Jr.", ReleaseDate: "1994-06-23", VoteAverage: 8.5},
	}
}

func testView() *models.MovieView {
	return &models.MovieView{
		Details: models.MovieDetails{
			Movie:               models.Movie{ID: 550, Title: "Fight Club", ReleaseDate: "1999-10-15", VoteAverage: 8.433, Overview: "An insomniac office worker..."},
			Runtime:             139,
			Genres:              []models.Genre{{ID: 18, Name: "Drama"}},
			ProductionCountries: []models.ProductionCountry{{Name: "United States of America"}},
			SpokenLanguages:     []models.SpokenLanguage{{EnglishName: "English"}},
		},
		Credits: models.Credits{
			Cast: []models.CastMember{{Name: "Edward Norton", Character: "Narrator"}, {Name: "Brad Pitt", Character: "Tyler Durden"}},
			Crew: []models.CrewMember{{Name: "David Fincher", Job: "Director"}},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: JSON},
		{in: "CSV", want: CSV},
		{in: "md", want: Markdown},
		{in: "text", want: Text},
		{in: "yaml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				if !errors.Is(err, shared.ErrInvalidArgument) {
					t.Errorf("expected ErrInvalidArgument, got %v", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
			}
		})
	}

	if Markdown.Ext() != "md" || CSV.Ext() != "csv" {
		t.Error("unexpected extensions")
	}
}

func TestMovieListRenderers(t *testing.T) {
	t.Run("CSV", func(t *testing.T) {
		data, err := MoviesToCSV(testMovies(), fixedGenre("Drama"))
		if err != nil {
			t.Fatalf("MoviesToCSV failed: %v", err)
		}
		output := string(data)

		if !strings.HasPrefix(output, "ID,Title,Year,Rating,Genre,Poster\n") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "550,Fight Club,1999,8.4,Drama,https://image.tmdb.org/t/p/w500/fc.jpg") {
			t.Errorf("CSV missing first row, got: %s", output)
		}
		if !strings.Contains(output, `"Forrest Gump, Jr."`) {
			t.Errorf("CSV should quote titles with commas, got: %s", output)
		}
	})

	t.Run("Markdown Without Genres", func(t *testing.T) {
		data, _ := MoviesToMarkdown("Popular Movies", testMovies(), nil)
		output := string(data)

		if !strings.Contains(output, "# Popular Movies") || !strings.Contains(output, "**Movies**: 2") {
			t.Errorf("Markdown missing header, got: %s", output)
		}
		if !strings.Contains(output, "1. **Fight Club** (1999) ⭐ 8.4 · General") {
			t.Errorf("Markdown missing first movie with fallback genre, got: %s", output)
		}
	})

	t.Run("Text", func(t *testing.T) {
		data, _ := MoviesToText("Search: gump", testMovies(), nil)
		if !strings.Contains(string(data), "[13] Forrest Gump, Jr. (1994)") {
			t.Errorf("Text missing movie, got: %s", data)
		}
	})

	t.Run("JSON", func(t *testing.T) {
		data, err := RenderMovies(JSON, "", testMovies(), nil)
		if err != nil {
			t.Fatalf("RenderMovies failed: %v", err)
		}
		var decoded []models.Movie
		if err := json.Unmarshal(data, &decoded); err != nil || len(decoded) != 2 {
			t.Errorf("expected 2 movies in JSON, got %v (%v)", decoded, err)
		}
	})
}

func TestMovieViewRenderers(t *testing.T) {
	t.Run("Markdown", func(t *testing.T) {
		data, _ := MovieViewToMarkdown(testView(), "poster.jpg")
		output := string(data)

		for _, want := range []string{
			"# Fight Club",
			"![Poster](poster.jpg)",
			"**Runtime**: 2h 19m",
			"**Director**: David Fincher",
			"**Languages**: English",
			"- Brad Pitt as Tyler Durden",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got: %s", want, output)
			}
		}
	})

	t.Run("Text", func(t *testing.T) {
		data, _ := RenderMovieView(Text, testView())
		if !strings.Contains(string(data), "Fight Club (1999)") || !strings.Contains(string(data), "Director: David Fincher") {
			t.Errorf("unexpected text, got: %s", data)
		}
	})

	t.Run("CSV", func(t *testing.T) {
		data, _ := RenderMovieView(CSV, testView())
		if !strings.Contains(string(data), "Edward Norton; Brad Pitt") {
			t.Errorf("CSV missing cast, got: %s", data)
		}
	})
}

func TestDownloadImage(t *testing.T) {
	t.Run("EmptyURL", func(t *testing.T) {
		if _, err := DownloadImage(context.Background(), nil, ""); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("Status Error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		if _, err := DownloadImage(context.Background(), server.Client(), server.URL); err == nil {
			t.Error("expected error for 404")
		}
	})

	t.Run("Read Failure", func(t *testing.T) {
		client := &http.Client{Transport: th.NewMockRoundTripper(&http.Response{StatusCode: http.StatusOK, Body: &th.FCloser{}, Header: http.Header{}}, nil)}
		if _, err := DownloadImage(context.Background(), client, "http://example.com/p.jpg"); err == nil {
			t.Error("expected read error")
		}
	})
}

func TestWriters(t *testing.T) {
	t.Run("WriteMarkdownExport", func(t *testing.T) {
		t.Run("WithoutPoster", func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "fight-club")

			result, err := WriteMarkdownExport(context.Background(), testView(), dir, nil)
			if err != nil {
				t.Fatalf("WriteMarkdownExport failed: %v", err)
			}
			if len(result.Files) != 1 || result.Poster != "" {
				t.Errorf("expected README only, got %+v", result)
			}
			th.AssertFileExists(t, filepath.Join(dir, "README.md"))
		})

		t.Run("WithPoster", func(t *testing.T) {
			client := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
				rec := httptest.NewRecorder()
				rec.Write([]byte("jpeg-bytes"))
				return rec.Result(), nil
			})}
			view := testView()
			view.Details.PosterPath = "/fc.jpg"
			dir := t.TempDir()

			result, err := WriteMarkdownExport(context.Background(), view, dir, client)
			if err != nil {
				t.Fatalf("WriteMarkdownExport failed: %v", err)
			}
			if th.MustReadFile(t, result.Poster) != "jpeg-bytes" {
				t.Error("poster content mismatch")
			}
			if !strings.Contains(th.MustReadFile(t, filepath.Join(dir, "README.md")), "![Poster](poster.jpg)") {
				t.Error("README should reference the poster")
			}
		})
	})

	t.Run("WriteMovieViewFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "550.json")
		got, err := WriteMovieViewFile(testView(), JSON, path)
		if err != nil || got != path {
			t.Fatalf("WriteMovieViewFile = %q, %v", got, err)
		}

		var view models.MovieView
		if err := json.Unmarshal([]byte(th.MustReadFile(t, path)), &view); err != nil || view.Details.ID != 550 {
			t.Errorf("unexpected file contents: %v", err)
		}

		if _, err := WriteMovieViewFile(testView(), Text, filepath.Join(t.TempDir(), "missing", "x.txt")); err == nil {
			t.Error("expected error for missing directory")
		}
	})
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }
