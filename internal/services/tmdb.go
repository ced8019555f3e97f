// TMDb v3 implementation of [Catalog]
//
// Endpoints are documented at https://developer.themoviedb.org/reference/intro/getting-started
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	tmdbBaseURL     = "https://api.themoviedb.org/3"
	defaultLanguage = "en-US"
)

// tmdbErrorBody is the JSON body TMDb sends with non-2xx responses.
type tmdbErrorBody struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}

// TMDBService implements [Catalog] against the TMDb v3 API.
//
// Requests carry the API read access token as a bearer token via [oauth2.StaticTokenSource].
type TMDBService struct {
	baseURL    string
	language   string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewTMDBService creates a catalog client from cfg.
//
// base is the transport used underneath the bearer-token client; nil selects [http.DefaultClient].
func NewTMDBService(cfg shared.TMDBConfig, base *http.Client, logger *log.Logger) (*TMDBService, error) {
	token := strings.TrimSpace(cfg.AccessToken)
	if token == "" {
		return nil, fmt.Errorf("%w: tmdb access token not set (config [tmdb].access_token or %s)", shared.ErrMissingCredentials, shared.TokenEnvVar)
	}

	if base == nil {
		base = http.DefaultClient
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}))
	client.Timeout = cfg.Timeout()

	s := &TMDBService{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		language:   cfg.Language,
		httpClient: client,
		logger:     logger,
	}
	if s.baseURL == "" {
		s.baseURL = tmdbBaseURL
	}
	if s.language == "" {
		s.language = defaultLanguage
	}
	if cfg.RateLimit > 0 {
		burst := int(cfg.RateLimit)
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return s, nil
}

// Popular implements [Catalog].
func (s *TMDBService) Popular(ctx context.Context, page int) (*models.MoviePage, error) {
	var result models.MoviePage
	q := url.Values{"page": {strconv.Itoa(max(page, 1))}}
	if err := s.doRequest(ctx, "/movie/popular", "/movie/popular", q, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Search implements [Catalog].
func (s *TMDBService) Search(ctx context.Context, query string, page int) (*models.MoviePage, error) {
	var result models.MoviePage
	q := url.Values{"query": {query}, "page": {strconv.Itoa(max(page, 1))}}
	if err := s.doRequest(ctx, "/search/movie", "/search/movie", q, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Movie implements [Catalog].
func (s *TMDBService) Movie(ctx context.Context, id int) (*models.MovieDetails, error) {
	var result models.MovieDetails
	if err := s.doRequest(ctx, "/movie/{id}", fmt.Sprintf("/movie/%d", id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Credits implements [Catalog].
func (s *TMDBService) Credits(ctx context.Context, id int) (*models.Credits, error) {
	var result models.Credits
	if err := s.doRequest(ctx, "/movie/{id}/credits", fmt.Sprintf("/movie/%d/credits", id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Genres implements [Catalog].
func (s *TMDBService) Genres(ctx context.Context) ([]models.Genre, error) {
	var result models.GenreList
	if err := s.doRequest(ctx, "/genre/movie/list", "/genre/movie/list", nil, &result); err != nil {
		return nil, err
	}
	return result.Genres, nil
}

// doRequest performs an authenticated GET and decodes the JSON body into result.
//
// endpoint is the low-cardinality label used for metrics and errors; path is the concrete request path.
func (s *TMDBService) doRequest(ctx context.Context, endpoint, path string, query url.Values, result any) (err error) {
	start := time.Now()
	status := "network_error"
	defer func() {
		tmdbRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
		if err != nil {
			kind := Classify(err)
			if kind == KindCancelled {
				status = "cancelled"
			}
			tmdbErrorsTotal.WithLabelValues(string(kind)).Inc()
		}
		tmdbRequestsTotal.WithLabelValues(endpoint, status).Inc()
	}()

	if s.limiter != nil {
		if werr := s.limiter.Wait(ctx); werr != nil {
			if ctx.Err() != nil {
				werr = ctx.Err()
			}
			return newError(endpoint, werr)
		}
	}

	if query == nil {
		query = url.Values{}
	}
	query.Set("language", s.language)
	apiURL := s.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return newError(endpoint, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	s.logger.Debug("tmdb request", "endpoint", endpoint, "url", req.URL.Redacted())

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return newError(endpoint, fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()
	status = strconv.Itoa(resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &StatusError{StatusCode: resp.StatusCode, Endpoint: endpoint}
		var body tmdbErrorBody
		if json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body) == nil {
			statusErr.Message = body.StatusMessage
		}
		s.logger.Warn("tmdb error response", "endpoint", endpoint, "status", resp.StatusCode, "message", statusErr.Message)
		return newError(endpoint, statusErr)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			if ctx.Err() != nil {
				return newError(endpoint, ctx.Err())
			}
			return newError(endpoint, fmt.Errorf("failed to decode response: %w", err))
		}
	}

	s.logger.Debug("tmdb response", "endpoint", endpoint, "status", resp.StatusCode, "elapsed", time.Since(start))
	return nil
}
