// package tasks runs batch operations over movie ids with non-blocking progress reporting.
package tasks

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/reel/internal/controller"
	"github.com/desertthunder/reel/internal/models"
)

// MovieExportJob is a fetched movie waiting to be written.
type MovieExportJob struct {
	Index int
	View  *models.MovieView
}

// MovieExportResult is the outcome of exporting one movie.
type MovieExportResult struct {
	MovieID      int      `json:"movie_id"`
	Title        string   `json:"title"`
	Success      bool     `json:"success"`
	Files        []string `json:"files"`
	Error        error    `json:"-"`
	ErrorMessage string   `json:"error,omitempty"`

	index int
}

// BulkExportResult summarises a bulk export and is written as the manifest.
type BulkExportResult struct {
	TotalMovies       int                 `json:"total_movies"`
	SuccessfulExports int                 `json:"successful_exports"`
	FailedExports     int                 `json:"failed_exports"`
	Format            string              `json:"format"`
	OutputDirectory   string              `json:"output_directory"`
	ManifestPath      string              `json:"-"`
	Results           []MovieExportResult `json:"results"`
}

// Exporter writes movie views to disk using a [controller.DetailSource].
type Exporter struct {
	source controller.DetailSource
	logger *log.Logger
}

// NewExporter creates an exporter backed by source.
func NewExporter(source controller.DetailSource, logger *log.Logger) *Exporter {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Exporter{source: source, logger: logger}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
