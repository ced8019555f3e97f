package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/repositories"
	"github.com/desertthunder/reel/internal/shared"
	tu "github.com/desertthunder/reel/internal/testing"
	"github.com/urfave/cli/v3"
)

// testRunner wires a runner to a fake catalog and a sqlite store in a temp dir.
func testRunner(t *testing.T, catalog *tu.FakeCatalog) (*Runner, *bytes.Buffer, string) {
	t.Helper()
	t.Setenv(shared.TokenEnvVar, "")

	dir := t.TempDir()
	config := shared.DefaultConfig()
	config.Database.Path = filepath.Join(dir, "reel.db")
	config.TMDB.RateLimit = 1000

	store, err := repositories.Open(context.Background(), config, log.New(io.Discard))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}

	output := &bytes.Buffer{}
	r := NewRunner(RunnerOpts{
		Config:  config,
		Catalog: catalog,
		Store:   store,
		Logger:  log.New(io.Discard),
		Output:  output,
	})
	t.Cleanup(r.Close)
	return r, output, dir
}

// run executes args against the runner's command tree. --config points at a missing file
// so the injected config is kept.
func run(t *testing.T, r *Runner, dir string, args ...string) error {
	t.Helper()
	app := &cli.Command{
		Name: "reel",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: filepath.Join(dir, "config.toml")},
			&cli.BoolFlag{Name: "debug"},
		},
		Before:   r.Before,
		Commands: r.register(),
	}
	return app.Run(context.Background(), append([]string{"reel"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			catalog := &tu.FakeCatalog{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "/test/path/config.toml",
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Catalog:    catalog,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.catalog != catalog {
				t.Error("expected catalog to be set")
			}
		})

		t.Run("with nil options uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
		})

		t.Run("without token the catalog is unavailable", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.TMDB.AccessToken = ""
			runner := NewRunner(RunnerOpts{Config: config})

			if _, err := runner.tmdb(); !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "{\"key\":\"value\"}\n" {
				t.Errorf("expected compact JSON, got %q", output.String())
			}
		})

		t.Run("returns error on unmarshalable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			if err := runner.writeJSON(make(chan int), false); err == nil {
				t.Error("expected error for unmarshalable data")
			}
		})

		t.Run("returns error on newline write failure", func(t *testing.T) {
			w := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &w})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err == nil {
				t.Error("expected error when the newline cannot be written")
			}
		})

		t.Run("returns error on write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err == nil {
				t.Error("expected error on write failure")
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runner.writePlain("Hello %s, you are %d years old", "Alice", 30); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if output.String() != "Hello Alice, you are 30 years old" {
			t.Errorf("unexpected output %q", output.String())
		}
	})
}

func TestParseMovieID(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int
		wantErr error
	}{
		{name: "valid", raw: "550", want: 550},
		{name: "trimmed", raw: " 13 ", want: 13},
		{name: "empty", raw: "", wantErr: shared.ErrMissingArgument},
		{name: "not a number", raw: "fight-club", wantErr: shared.ErrInvalidArgument},
		{name: "negative", raw: "-1", wantErr: shared.ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseMovieID(tt.raw)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("expected %d, got %d (%v)", tt.want, got, err)
			}
		})
	}
}

func TestMoviesCommands(t *testing.T) {
	t.Run("popular loads requested pages", func(t *testing.T) {
		catalog := &tu.FakeCatalog{}
		r, output, dir := testRunner(t, catalog)

		if err := run(t, r, dir, "movies", "popular", "--pages", "2", "--format", "csv"); err != nil {
			t.Fatalf("popular failed: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(output.String()), "\n")
		if len(lines) != 41 {
			t.Errorf("expected header + 40 rows, got %d lines", len(lines))
		}
		if !strings.HasPrefix(lines[0], "ID,Title") {
			t.Errorf("expected CSV header, got %q", lines[0])
		}
	})

	t.Run("popular surfaces upstream errors", func(t *testing.T) {
		catalog := &tu.FakeCatalog{PopularFunc: func(ctx context.Context, page int) (*models.MoviePage, error) {
			return nil, errors.New("connection reset")
		}}
		r, _, dir := testRunner(t, catalog)

		if err := run(t, r, dir, "movies", "popular"); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("search", func(t *testing.T) {
		r, output, dir := testRunner(t, &tu.FakeCatalog{})

		if err := run(t, r, dir, "movies", "search", "batman"); err != nil {
			t.Fatalf("search failed: %v", err)
		}
		if !strings.Contains(output.String(), `Results for "batman"`) {
			t.Errorf("expected results title, got %s", output.String())
		}
	})

	t.Run("search requires query", func(t *testing.T) {
		r, _, dir := testRunner(t, &tu.FakeCatalog{})

		if err := run(t, r, dir, "movies", "search"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("show remembers the selection", func(t *testing.T) {
		r, output, dir := testRunner(t, &tu.FakeCatalog{})

		if err := run(t, r, dir, "movies", "show"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Fatalf("expected ErrMissingArgument without a selection, got %v", err)
		}

		if err := run(t, r, dir, "movies", "show", "550"); err != nil {
			t.Fatalf("show failed: %v", err)
		}
		if !strings.Contains(output.String(), "Movie 550") || !strings.Contains(output.String(), "Director Person") {
			t.Errorf("expected details output, got %s", output.String())
		}

		output.Reset()
		if err := run(t, r, dir, "movies", "show"); err != nil {
			t.Fatalf("show of selected movie failed: %v", err)
		}
		if !strings.Contains(output.String(), "Movie 550") {
			t.Errorf("expected the remembered movie, got %s", output.String())
		}
	})

	t.Run("show writes to file", func(t *testing.T) {
		r, _, dir := testRunner(t, &tu.FakeCatalog{})
		out := filepath.Join(dir, "movie.json")

		if err := run(t, r, dir, "movies", "show", "13", "--format", "json", "--output", out); err != nil {
			t.Fatalf("show failed: %v", err)
		}
		if !strings.Contains(tu.MustReadFile(t, out), `"title": "Movie 13"`) {
			t.Error("expected movie JSON in file")
		}
	})

	t.Run("genres", func(t *testing.T) {
		r, output, dir := testRunner(t, &tu.FakeCatalog{})

		if err := run(t, r, dir, "movies", "genres"); err != nil {
			t.Fatalf("genres failed: %v", err)
		}
		if !strings.Contains(output.String(), "Drama") {
			t.Errorf("expected genre names, got %s", output.String())
		}
	})
}

func TestFavoritesCommands(t *testing.T) {
	r, output, dir := testRunner(t, &tu.FakeCatalog{})

	for _, id := range []string{"550", "13", "550"} {
		if err := run(t, r, dir, "favorites", "add", id); err != nil {
			t.Fatalf("add %s failed: %v", id, err)
		}
	}
	if !strings.Contains(output.String(), "550 is already a favorite") {
		t.Errorf("expected duplicate notice, got %s", output.String())
	}

	output.Reset()
	if err := run(t, r, dir, "favorites", "list", "--json"); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if strings.TrimSpace(output.String()) != "[550,13]" {
		t.Errorf("expected [550,13], got %s", output.String())
	}

	exportDir := filepath.Join(dir, "export")
	if err := run(t, r, dir, "favorites", "export", "--output", exportDir); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	tu.AssertFileExists(t, filepath.Join(exportDir, "550.json"))
	tu.AssertFileExists(t, filepath.Join(exportDir, "13.json"))
	tu.AssertFileExists(t, filepath.Join(exportDir, "export_manifest.json"))

	if err := run(t, r, dir, "favorites", "remove", "550"); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	output.Reset()
	if err := run(t, r, dir, "favorites", "list"); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if strings.TrimSpace(output.String()) != "13" {
		t.Errorf("expected only 13, got %s", output.String())
	}

	if err := run(t, r, dir, "favorites", "add", "abc"); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestSetupCommands(t *testing.T) {
	t.Run("token from curl", func(t *testing.T) {
		r, _, dir := testRunner(t, &tu.FakeCatalog{})
		curl := `curl --request GET --url 'https://api.themoviedb.org/3/movie/popular' --header 'Authorization: Bearer abc.def.ghi' --header 'accept: application/json'`

		if err := run(t, r, dir, "setup", "token", "--curl", curl); err != nil {
			t.Fatalf("setup token failed: %v", err)
		}

		config, err := shared.LoadConfig(filepath.Join(dir, "config.toml"))
		if err != nil {
			t.Fatalf("failed to load saved config: %v", err)
		}
		if config.TMDB.AccessToken != "abc.def.ghi" {
			t.Errorf("expected token to be saved, got %q", config.TMDB.AccessToken)
		}
	})

	t.Run("token requires exactly one source", func(t *testing.T) {
		r, _, dir := testRunner(t, &tu.FakeCatalog{})

		if err := run(t, r, dir, "setup", "token"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
		if err := run(t, r, dir, "setup", "token", "--token", "a", "--curl", "b"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("database", func(t *testing.T) {
		r, output, dir := testRunner(t, &tu.FakeCatalog{})

		if err := run(t, r, dir, "setup", "database"); err != nil {
			t.Fatalf("setup database failed: %v", err)
		}
		if !strings.Contains(output.String(), "applied") {
			t.Errorf("expected migration status, got %s", output.String())
		}
		tu.AssertFileExists(t, filepath.Join(dir, "config.toml"))
	})
}
