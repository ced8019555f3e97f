// package services defines interface Catalog for reading movie data from TMDb
package services

import (
	"context"

	"github.com/desertthunder/reel/internal/models"
)

// Catalog is the read-only movie API used by the controllers.
//
// Every method honours ctx cancellation; a cancelled call returns an error classified as [KindCancelled].
type Catalog interface {
	// Popular returns one page of the popular movies listing. Pages start at 1.
	Popular(ctx context.Context, page int) (*models.MoviePage, error)

	// Search returns one page of movies whose title matches query.
	Search(ctx context.Context, query string, page int) (*models.MoviePage, error)

	// Movie returns the full details for a movie.
	Movie(ctx context.Context, id int) (*models.MovieDetails, error)

	// Credits returns the cast and crew for a movie.
	Credits(ctx context.Context, id int) (*models.Credits, error)

	// Genres returns the genre id/name table.
	Genres(ctx context.Context) ([]models.Genre, error)
}
