// Package models defines the TMDb entities used across reel.
//
// Listing types:
//   - [Movie] : one entry of a popular or search page
//   - [MoviePage] : a page of movies with total_pages for pagination
//   - [Genre] : id/name pair used to label movies
//
// Detail types:
//   - [MovieDetails] : runtime, genres, production countries and spoken languages
//   - [Credits] : cast and crew, with [Credits.Director] and [Credits.TopCast]
//   - [MovieView] : details and credits fetched together for the details view
//
// Display helpers return [NotAvailable] ("N/A") for missing values so renderers never print empty fields.
package models
