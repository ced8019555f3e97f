// package models defines the TMDb data model shared by the catalog client, controllers and renderers
package models

import (
	"fmt"
	"strings"
	"time"
)

const (
	// ImageBaseURL is the TMDb image CDN root
	ImageBaseURL = "https://image.tmdb.org/t/p"
	// PosterSize is the width used for posters
	PosterSize = "w500"
	// BackdropSize is the width used for backdrops
	BackdropSize = "w1280"

	// DefaultGenre is shown when a genre id is unknown
	DefaultGenre = "General"
	// NotAvailable is shown for empty detail fields
	NotAvailable = "N/A"
	// TopCastSize is the number of cast members displayed on the details view
	TopCastSize = 6
)

// Movie is one entry of a listing or search result.
type Movie struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	ReleaseDate  string  `json:"release_date"`
	VoteAverage  float64 `json:"vote_average"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	GenreIDs     []int   `json:"genre_ids"`
}

// MoviePage is one page of /movie/popular or /search/movie.
type MoviePage struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// Genre is an id/name pair from /genre/movie/list.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GenreList is the /genre/movie/list envelope.
type GenreList struct {
	Genres []Genre `json:"genres"`
}

// ProductionCountry of a movie
type ProductionCountry struct {
	ISO  string `json:"iso_3166_1"`
	Name string `json:"name"`
}

// SpokenLanguage of a movie
type SpokenLanguage struct {
	ISO         string `json:"iso_639_1"`
	EnglishName string `json:"english_name"`
	Name        string `json:"name"`
}

// MovieDetails is the /movie/{id} payload.
type MovieDetails struct {
	Movie
	Runtime             int                 `json:"runtime"`
	Tagline             string              `json:"tagline"`
	Status              string              `json:"status"`
	Genres              []Genre             `json:"genres"`
	ProductionCountries []ProductionCountry `json:"production_countries"`
	SpokenLanguages     []SpokenLanguage    `json:"spoken_languages"`
}

// CastMember is a credited actor.
type CastMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"`
	Order       int    `json:"order"`
}

// CrewMember is a credited crew member.
type CrewMember struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Job        string `json:"job"`
	Department string `json:"department"`
}

// Credits is the /movie/{id}/credits payload.
type Credits struct {
	ID   int          `json:"id"`
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// MovieView is the composite rendered by the details view.
type MovieView struct {
	Details MovieDetails `json:"details"`
	Credits Credits      `json:"credits"`
}

// ImageURL joins an image path with the CDN root at the given size.
// Empty paths yield an empty string.
func ImageURL(size, path string) string {
	if path == "" {
		return ""
	}
	return ImageBaseURL + "/" + size + path
}

// PosterURL returns the w500 poster URL or "" when the movie has none.
func (m Movie) PosterURL() string { return ImageURL(PosterSize, m.PosterPath) }

// BackdropURL returns the w1280 backdrop URL or "" when the movie has none.
func (m Movie) BackdropURL() string { return ImageURL(BackdropSize, m.BackdropPath) }

// Released parses ReleaseDate (YYYY-MM-DD).
func (m Movie) Released() (time.Time, bool) {
	if m.ReleaseDate == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.DateOnly, m.ReleaseDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Year returns the release year or N/A.
func (m Movie) Year() string {
	if t, ok := m.Released(); ok {
		return fmt.Sprintf("%d", t.Year())
	}
	return NotAvailable
}

// Rating formats VoteAverage with one decimal, or N/A when unrated.
func (m Movie) Rating() string {
	if m.VoteAverage == 0 {
		return NotAvailable
	}
	return fmt.Sprintf("%.1f", m.VoteAverage)
}

// FirstGenreID returns the first genre id and whether there was one.
func (m Movie) FirstGenreID() (int, bool) {
	if len(m.GenreIDs) == 0 {
		return 0, false
	}
	return m.GenreIDs[0], true
}

// GenreNames lists the detail genres, or N/A.
func (d MovieDetails) GenreNames() string {
	names := make([]string, 0, len(d.Genres))
	for _, g := range d.Genres {
		names = append(names, g.Name)
	}
	return joinOrNA(names)
}

// Countries lists the production countries, or N/A.
func (d MovieDetails) Countries() string {
	names := make([]string, 0, len(d.ProductionCountries))
	for _, c := range d.ProductionCountries {
		names = append(names, c.Name)
	}
	return joinOrNA(names)
}

// Languages lists the spoken languages by English name, or N/A.
func (d MovieDetails) Languages() string {
	names := make([]string, 0, len(d.SpokenLanguages))
	for _, l := range d.SpokenLanguages {
		names = append(names, l.EnglishName)
	}
	return joinOrNA(names)
}

// Director returns the first crew member with job Director, or N/A.
func (c Credits) Director() string {
	for _, p := range c.Crew {
		if p.Job == "Director" {
			return p.Name
		}
	}
	return NotAvailable
}

// TopCast returns at most n cast members in billing order.
func (c Credits) TopCast(n int) []CastMember {
	if n < 0 || n >= len(c.Cast) {
		return c.Cast
	}
	return c.Cast[:n]
}

func joinOrNA(parts []string) string {
	out := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return NotAvailable
	}
	return strings.Join(out, ", ")
}

// Preference is one persisted key/value UI preference.
type Preference struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
