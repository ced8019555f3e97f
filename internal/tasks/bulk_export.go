package tasks

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/desertthunder/reel/internal/controller"
	"github.com/desertthunder/reel/internal/formatter"
	"github.com/desertthunder/reel/internal/shared"
	"golang.org/x/time/rate"
)

// BulkExportOpts contains configuration for bulk movie exports.
type BulkExportOpts struct {
	Format       formatter.Format // Export format: json, csv, markdown, txt
	OutputDir    string           // Base output directory (default: reel_export_{epoch})
	NumWorkers   int              // Concurrent writers (default: 4)
	RateLimit    float64          // Movie fetches per second (default: 4)
	PosterClient *http.Client     // Downloads posters for markdown exports when set
}

// BulkExport fetches and writes each movie in ids, then writes export_manifest.json.
//
// Fetches are rate limited and run one at a time; writing is spread over a worker pool.
// A movie that fails is recorded in the result and does not stop the export.
func (e *Exporter) BulkExport(ctx context.Context, prog chan<- ProgressUpdate, ids []int, opts BulkExportOpts) (*BulkExportResult, error) {
	if e.source == nil {
		return nil, fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}

	if opts.Format == "" {
		opts.Format = formatter.JSON
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("reel_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 4.0
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkExportResult{
		TotalMovies:     len(ids),
		Format:          string(opts.Format),
		OutputDirectory: opts.OutputDir,
		Results:         make([]MovieExportResult, 0, len(ids)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	jobs := make(chan MovieExportJob, len(ids))
	results := make(chan MovieExportResult, len(ids))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		defer close(jobs)
		for i, id := range ids {
			if err := limiter.Wait(ctx); err != nil {
				return
			}

			sendProgress(prog, fetchingMovieUpdate(i+1, len(ids), id))
			view, err := controller.FetchMovieView(ctx, e.source, id)
			if err != nil {
				e.logger.Warn("failed to fetch movie", "movie_id", id, "err", err)
				results <- MovieExportResult{
					MovieID:      id,
					Title:        fmt.Sprintf("Unknown (%d)", id),
					Error:        fmt.Errorf("failed to fetch movie: %w", err),
					ErrorMessage: err.Error(),
					index:        i,
				}
				continue
			}
			jobs <- MovieExportJob{Index: i, View: view}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			sendProgress(prog, exportCompletedUpdate(completed, len(ids), res.Title, len(res.Files)))
		} else {
			result.FailedExports++
			sendProgress(prog, exportFailedUpdate(completed, len(ids), res.Title, res.Error))
		}
	}

	sort.Slice(result.Results, func(i, j int) bool { return result.Results[i].index < result.Results[j].index })

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("export interrupted: %w", err)
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	data, err := shared.MarshalJSON(result, true)
	if err != nil {
		return result, fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, data, 0644); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	sendProgress(prog, manifestUpdate(manifestPath))
	return result, nil
}

// exportWorker writes movies from the jobs channel.
func (e *Exporter) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan MovieExportJob,
	results chan<- MovieExportResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		results <- e.exportSingleMovie(ctx, job, opts)
	}
}

// exportSingleMovie writes one movie in the requested format.
func (e *Exporter) exportSingleMovie(ctx context.Context, j MovieExportJob, opts BulkExportOpts) MovieExportResult {
	d := j.View.Details
	result := MovieExportResult{
		MovieID: d.ID,
		Title:   d.Title,
		Files:   []string{},
		index:   j.Index,
	}

	fail := func(err error) MovieExportResult {
		result.Error = err
		result.ErrorMessage = err.Error()
		return result
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	switch opts.Format {
	case formatter.Markdown:
		md, err := formatter.WriteMarkdownExport(ctx, j.View, filepath.Join(opts.OutputDir, strconv.Itoa(d.ID)), opts.PosterClient)
		if err != nil {
			return fail(fmt.Errorf("markdown export failed: %w", err))
		}
		result.Files = md.Files
	default:
		path := filepath.Join(opts.OutputDir, fmt.Sprintf("%d.%s", d.ID, opts.Format.Ext()))
		written, err := formatter.WriteMovieViewFile(j.View, opts.Format, path)
		if err != nil {
			return fail(fmt.Errorf("%s export failed: %w", opts.Format, err))
		}
		result.Files = []string{written}
	}

	result.Success = true
	return result
}
