package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/reel/internal/controller"
	"github.com/desertthunder/reel/internal/formatter"
	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/services"
	"github.com/desertthunder/reel/internal/shared"
	"github.com/urfave/cli/v3"
)

// MoviesPopular prints the popular listing, loading --pages pages through the list controller.
func (r *Runner) MoviesPopular(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	catalog, err := r.tmdb()
	if err != nil {
		return err
	}

	list := r.newListController(catalog)
	stop := context.AfterFunc(ctx, list.CancelAll)
	defer stop()

	list.StartInitialLoad()
	list.Wait()
	for i := 1; i < cmd.Int("pages"); i++ {
		if !list.LoadMore() {
			break
		}
		list.Wait()
	}

	state := list.State()
	if err := ctx.Err(); err != nil {
		return err
	}
	if state.Status == controller.Error {
		return failure(state.Message, state.Err)
	}

	title := fmt.Sprintf("Popular Movies (pages 1-%d of %d)", state.Page, state.TotalPages)
	return r.renderMovies(ctx, catalog, format, title, state.Items)
}

// MoviesSearch prints the first page of results for a title query.
func (r *Runner) MoviesSearch(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	catalog, err := r.tmdb()
	if err != nil {
		return err
	}

	list := r.newListController(catalog)
	stop := context.AfterFunc(ctx, list.CancelAll)
	defer stop()

	list.Search(query)
	list.Wait()

	state := list.State()
	if err := ctx.Err(); err != nil {
		return err
	}
	if state.Status == controller.Error {
		return failure(state.Message, state.Err)
	}
	if len(state.Items) == 0 {
		return r.writePlain("No movies found for %q\n", query)
	}

	return r.renderMovies(ctx, catalog, format, fmt.Sprintf("Results for %q", query), state.Items)
}

// MoviesShow prints the details and cast of a movie.
//
// Without an id argument the last selected movie is shown.
func (r *Runner) MoviesShow(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	catalog, err := r.tmdb()
	if err != nil {
		return err
	}
	store, err := r.preferences(ctx)
	if err != nil {
		return err
	}

	detail := controller.NewDetailController(catalog, store, func(s controller.DetailState) {
		r.logger.Debug("detail state", "status", s.Status, "movie_id", s.MovieID)
	}, r.logger)
	stop := context.AfterFunc(ctx, detail.Cancel)
	defer stop()

	if raw := cmd.StringArg("id"); raw != "" {
		id, err := parseMovieID(raw)
		if err != nil {
			return err
		}
		detail.Open(ctx, id)
	} else if err := detail.LoadSelected(ctx); err != nil {
		if errors.Is(err, controller.ErrNoSelection) {
			return fmt.Errorf("%w: pass a movie id (no movie selected yet)", shared.ErrMissingArgument)
		}
		return err
	}
	detail.Wait()

	state := detail.State()
	if err := ctx.Err(); err != nil {
		return err
	}
	if state.Status == controller.Error {
		return failure(state.Message, state.Err)
	}
	if state.View == nil {
		return fmt.Errorf("%w: no details for movie %d", shared.ErrMovieNotFound, state.MovieID)
	}

	if err := r.writeMovieView(ctx, state.View, format, cmd.String("output")); err != nil {
		return err
	}
	if state.Favorite && format == formatter.Text && cmd.String("output") == "" {
		r.writePlain("\n♥ In your favorites\n")
	}

	if cmd.Bool("open") {
		url := shared.MoviePageURL(state.MovieID)
		if err := shared.OpenBrowser(url); err != nil {
			r.logger.Warn("failed to open browser", "error", err)
			r.writePlain("Open %s in your browser\n", url)
		}
	}
	return nil
}

// MoviesGenres prints the genre table.
func (r *Runner) MoviesGenres(ctx context.Context, cmd *cli.Command) error {
	catalog, err := r.tmdb()
	if err != nil {
		return err
	}

	genres, err := catalog.Genres(ctx)
	if err != nil {
		return failure(services.UserMessage(err), err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(genres, true)
	}

	r.writePlainHeader(fmt.Sprintf("Genres (%d)", len(genres)))
	for _, g := range genres {
		r.writePlain("%6d  %s\n", g.ID, g.Name)
	}
	return nil
}

func (r *Runner) newListController(catalog services.Catalog) *controller.ListController {
	return controller.NewListController(catalog, nil, func(s controller.ViewState) {
		r.logger.Debug("list state", "state", s.String())
	}, r.logger)
}

func (r *Runner) renderMovies(ctx context.Context, catalog services.Catalog, format formatter.Format, title string, movies []models.Movie) error {
	genres := services.NewGenreCache(catalog)
	if err := genres.Load(ctx); err != nil {
		r.logger.Warn("genre names unavailable", "error", err)
	}

	data, err := formatter.RenderMovies(format, title, movies, genres)
	if err != nil {
		return err
	}
	return r.writeBytes(data)
}

func (r *Runner) writeMovieView(ctx context.Context, view *models.MovieView, format formatter.Format, output string) error {
	if output == "" {
		data, err := formatter.RenderMovieView(format, view)
		if err != nil {
			return err
		}
		return r.writeBytes(data)
	}

	if format == formatter.Markdown {
		res, err := formatter.WriteMarkdownExport(ctx, view, output, r.httpClient)
		if err != nil {
			return err
		}
		r.logger.Info("markdown export written", "dir", res.Directory, "files", len(res.Files))
		return r.writePlain("✓ Wrote %s\n", res.Directory)
	}

	path, err := formatter.WriteMovieViewFile(view, format, output)
	if err != nil {
		return err
	}
	return r.writePlain("✓ Wrote %s\n", path)
}
