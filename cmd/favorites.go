package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/reel/internal/controller"
	"github.com/desertthunder/reel/internal/formatter"
	"github.com/desertthunder/reel/internal/tasks"
	"github.com/urfave/cli/v3"
)

func (r *Runner) favorites(ctx context.Context) (*controller.Favorites, error) {
	store, err := r.preferences(ctx)
	if err != nil {
		return nil, err
	}
	return controller.NewFavorites(store), nil
}

// FavoritesList prints the favorite movie ids in insertion order.
func (r *Runner) FavoritesList(ctx context.Context, cmd *cli.Command) error {
	favs, err := r.favorites(ctx)
	if err != nil {
		return err
	}

	ids, err := favs.List(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(ids, false)
	}
	if len(ids) == 0 {
		return r.writePlain("No favorites yet. Add one with `reel favorites add <id>`.\n")
	}
	for _, id := range ids {
		r.writePlain("%d\n", id)
	}
	return nil
}

// FavoritesAdd adds a movie id to the favorites set.
func (r *Runner) FavoritesAdd(ctx context.Context, cmd *cli.Command) error {
	id, err := parseMovieID(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	favs, err := r.favorites(ctx)
	if err != nil {
		return err
	}

	added, err := favs.Add(ctx, id)
	if err != nil {
		return err
	}
	if !added {
		return r.writePlain("%d is already a favorite\n", id)
	}
	return r.writePlain("♥ Added %d to favorites\n", id)
}

// FavoritesRemove removes a movie id from the favorites set.
func (r *Runner) FavoritesRemove(ctx context.Context, cmd *cli.Command) error {
	id, err := parseMovieID(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	favs, err := r.favorites(ctx)
	if err != nil {
		return err
	}

	removed, err := favs.Remove(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return r.writePlain("%d is not a favorite\n", id)
	}
	return r.writePlain("Removed %d from favorites\n", id)
}

// FavoritesExport writes every favorite movie to --output using the bulk exporter.
func (r *Runner) FavoritesExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	favs, err := r.favorites(ctx)
	if err != nil {
		return err
	}
	ids, err := favs.List(ctx)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return r.writePlain("No favorites to export.\n")
	}

	catalog, err := r.tmdb()
	if err != nil {
		return err
	}

	opts := tasks.BulkExportOpts{
		Format:     format,
		OutputDir:  cmd.String("output"),
		NumWorkers: cmd.Int("workers"),
		RateLimit:  r.config.TMDB.RateLimit,
	}
	if cmd.Bool("posters") {
		opts.PosterClient = r.httpClient
	}

	progress := make(chan tasks.ProgressUpdate, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Info(update.Message, "phase", update.Phase, "step", update.Step, "total", update.Total)
		}
	}()

	result, err := tasks.NewExporter(catalog, r.logger).BulkExport(ctx, progress, ids, opts)
	close(progress)
	<-done
	if err != nil {
		return err
	}

	r.writePlainHeader("Favorites Export")
	r.writePlain("Movies:    %d\n", result.TotalMovies)
	r.writePlain("Exported:  %d\n", result.SuccessfulExports)
	r.writePlain("Failed:    %d\n", result.FailedExports)
	r.writePlain("Directory: %s\n", result.OutputDirectory)
	r.writePlain("Manifest:  %s\n", result.ManifestPath)

	if result.FailedExports > 0 {
		r.writePlainln("Failed movies:")
		for _, res := range result.Results {
			if !res.Success {
				r.writePlain("  • %d: %s\n", res.MovieID, res.ErrorMessage)
			}
		}
		return fmt.Errorf("%d of %d exports failed", result.FailedExports, result.TotalMovies)
	}
	return nil
}
