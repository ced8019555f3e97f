// Package services implements the [Catalog] interface against the TMDb v3 API.
//
// # TMDb Implementation
//
// [TMDBService] authenticates with the API read access token through an [oauth2.StaticTokenSource] client,
// so every request carries "Authorization: Bearer <token>" and "Accept: application/json".
// All calls append language=<configured language> (en-US by default).
//
// Requests are throttled by a [rate.Limiter] when [shared.TMDBConfig.RateLimit] is positive.
//
// # Error Taxonomy
//
// Every failed call returns an [*Error] carrying an [ErrorKind]:
//   - [KindNetworkUnavailable] : the host is offline (unreachable network, DNS temporarily failing)
//   - [KindTransport] : any other failure to send the request or decode the body
//   - [KindUpstreamStatus] : non-2xx answer, with the code in a [*StatusError]
//   - [KindCancelled] : the request context was cancelled
//
// [Classify] returns the kind of any error and [UserMessage] the text for an error state.
// Cancelled errors have an empty message and are never shown.
//
// # Genres
//
// [GenreCache] fetches /genre/movie/list once per process and falls back to "General" for unknown ids.
//
// # Metrics
//
// Prometheus collectors are registered on the default registry:
//   - reel_tmdb_requests_total{endpoint, status}
//   - reel_tmdb_request_duration_seconds{endpoint}
//   - reel_tmdb_errors_total{kind}
//   - reel_genre_cache_lookups_total{result}
package services
