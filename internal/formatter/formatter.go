// package formatter renders movie lists and movie details as JSON, CSV, Markdown or plain text
package formatter

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/shared"
)

// Format is an export format name.
type Format string

const (
	JSON     Format = "json"
	CSV      Format = "csv"
	Markdown Format = "markdown"
	Text     Format = "txt"
)

// ParseFormat accepts json, csv, markdown (or md) and txt (or text).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return JSON, nil
	case "csv":
		return CSV, nil
	case "markdown", "md":
		return Markdown, nil
	case "txt", "text":
		return Text, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (json, csv, markdown, txt)", shared.ErrInvalidArgument, s)
	}
}

// Ext returns the file extension for f.
func (f Format) Ext() string {
	if f == Markdown {
		return "md"
	}
	return string(f)
}

// GenreNamer resolves the display genre of a movie. services.GenreCache satisfies it.
type GenreNamer interface {
	Primary(m models.Movie) string
}

func genreOf(g GenreNamer, m models.Movie) string {
	if g == nil {
		return models.DefaultGenre
	}
	return g.Primary(m)
}

// MoviesToCSV renders movies with columns: ID, Title, Year, Rating, Genre, Poster
func MoviesToCSV(movies []models.Movie, genres GenreNamer) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"ID", "Title", "Year", "Rating", "Genre", "Poster"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, m := range movies {
		record := []string{strconv.Itoa(m.ID), m.Title, m.Year(), m.Rating(), genreOf(genres, m), m.PosterURL()}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// MoviesToMarkdown renders movies as a numbered list under a heading
func MoviesToMarkdown(title string, movies []models.Movie, genres GenreNamer) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", title)
	fmt.Fprintf(&buf, "**Movies**: %d\n\n", len(movies))

	for i, m := range movies {
		fmt.Fprintf(&buf, "%d. **%s** (%s) ⭐ %s · %s\n", i+1, m.Title, m.Year(), m.Rating(), genreOf(genres, m))
	}
	return buf.Bytes(), nil
}

// MoviesToText renders movies one per line
func MoviesToText(title string, movies []models.Movie, genres GenreNamer) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "%s\n", title)
	fmt.Fprintf(&buf, "Movies: %d\n\n", len(movies))
	for i, m := range movies {
		fmt.Fprintf(&buf, "%3d. [%d] %s (%s) %s %s\n", i+1, m.ID, m.Title, m.Year(), m.Rating(), genreOf(genres, m))
	}
	return buf.Bytes(), nil
}

// MovieViewToMarkdown renders the details view with an optional local poster file
func MovieViewToMarkdown(view *models.MovieView, posterFile string) ([]byte, error) {
	var buf bytes.Buffer
	d := view.Details

	fmt.Fprintf(&buf, "# %s\n\n", d.Title)
	if posterFile != "" {
		fmt.Fprintf(&buf, "![Poster](%s)\n\n", posterFile)
	}
	if d.Tagline != "" {
		fmt.Fprintf(&buf, "> %s\n\n", d.Tagline)
	}

	fmt.Fprintf(&buf, "**Year**: %s · **Rating**: ⭐ %s · **Runtime**: %s\n\n", d.Year(), d.Rating(), shared.FormatRuntime(d.Runtime))
	fmt.Fprintf(&buf, "**Genres**: %s\n\n", d.GenreNames())

	overview := d.Overview
	if overview == "" {
		overview = "No overview available."
	}
	fmt.Fprintf(&buf, "%s\n\n", overview)

	buf.WriteString("## Details\n\n")
	fmt.Fprintf(&buf, "- **Director**: %s\n", view.Credits.Director())
	fmt.Fprintf(&buf, "- **Countries**: %s\n", d.Countries())
	fmt.Fprintf(&buf, "- **Languages**: %s\n", d.Languages())
	fmt.Fprintf(&buf, "- **Released**: %s\n\n", orNA(d.ReleaseDate))

	cast := view.Credits.TopCast(models.TopCastSize)
	if len(cast) > 0 {
		buf.WriteString("## Cast\n\n")
		for _, c := range cast {
			fmt.Fprintf(&buf, "- %s as %s\n", c.Name, orNA(c.Character))
		}
	}
	return buf.Bytes(), nil
}

// MovieViewToText renders the details view as plain text
func MovieViewToText(view *models.MovieView) ([]byte, error) {
	var buf bytes.Buffer
	d := view.Details

	fmt.Fprintf(&buf, "%s (%s)\n", d.Title, d.Year())
	fmt.Fprintf(&buf, "Rating: %s  Runtime: %s  Genres: %s\n", d.Rating(), shared.FormatRuntime(d.Runtime), d.GenreNames())
	fmt.Fprintf(&buf, "Director: %s\n", view.Credits.Director())
	fmt.Fprintf(&buf, "Countries: %s\n", d.Countries())
	fmt.Fprintf(&buf, "Languages: %s\n\n", d.Languages())
	if d.Overview != "" {
		fmt.Fprintf(&buf, "%s\n\n", d.Overview)
	}

	cast := view.Credits.TopCast(models.TopCastSize)
	if len(cast) > 0 {
		buf.WriteString("Cast:\n")
		for _, c := range cast {
			fmt.Fprintf(&buf, "  %s as %s\n", c.Name, orNA(c.Character))
		}
	}
	return buf.Bytes(), nil
}

// MovieViewToCSV renders the details view as a single header/value row pair
func MovieViewToCSV(view *models.MovieView) ([]byte, error) {
	d := view.Details
	cast := make([]string, 0, models.TopCastSize)
	for _, c := range view.Credits.TopCast(models.TopCastSize) {
		cast = append(cast, c.Name)
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	writer.Write([]string{"ID", "Title", "Year", "Rating", "Runtime", "Genres", "Director", "Countries", "Languages", "Cast"})
	writer.Write([]string{
		strconv.Itoa(d.ID), d.Title, d.Year(), d.Rating(), shared.FormatRuntime(d.Runtime), d.GenreNames(),
		view.Credits.Director(), d.Countries(), d.Languages(), strings.Join(cast, "; "),
	})
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderMovies renders a movie list in format.
func RenderMovies(format Format, title string, movies []models.Movie, genres GenreNamer) ([]byte, error) {
	switch format {
	case CSV:
		return MoviesToCSV(movies, genres)
	case Markdown:
		return MoviesToMarkdown(title, movies, genres)
	case Text:
		return MoviesToText(title, movies, genres)
	default:
		return shared.MarshalJSON(movies, true)
	}
}

// RenderMovieView renders a details view in format.
func RenderMovieView(format Format, view *models.MovieView) ([]byte, error) {
	switch format {
	case CSV:
		return MovieViewToCSV(view)
	case Markdown:
		return MovieViewToMarkdown(view, "")
	case Text:
		return MovieViewToText(view)
	default:
		return shared.MarshalJSON(view, true)
	}
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: empty URL provided", shared.ErrMissingArgument)
	}
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	return imageData, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory string
	Files     []string
	Poster    string
}

// WriteMarkdownExport writes {dir}/README.md for a movie and, when poster is non-nil, {dir}/poster.jpg.
//
// A poster download failure is logged to stderr and the README is written without it.
func WriteMarkdownExport(ctx context.Context, view *models.MovieView, outputDir string, poster *http.Client) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = strconv.Itoa(view.Details.ID)
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{Directory: outputDir, Files: []string{}}

	var posterFile string
	if url := view.Details.PosterURL(); poster != nil && url != "" {
		data, err := DownloadImage(ctx, poster, url)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to download poster: %v\n", err)
		} else {
			path := filepath.Join(outputDir, "poster.jpg")
			if err := os.WriteFile(path, data, 0644); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to save poster: %v\n", err)
			} else {
				posterFile = "poster.jpg"
				result.Poster = path
				result.Files = append(result.Files, path)
			}
		}
	}

	md, err := MovieViewToMarkdown(view, posterFile)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, md, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}
	result.Files = append(result.Files, mdFile)
	return result, nil
}

// WriteMovieViewFile writes a details view to path in format and returns the path.
//
// Defaults to {movie.ID}.{ext} as the filename.
func WriteMovieViewFile(view *models.MovieView, format Format, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("%d.%s", view.Details.ID, format.Ext())
	}

	data, err := RenderMovieView(format, view)
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", format, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", format, err)
	}
	return path, nil
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return models.NotAvailable
	}
	return s
}
