// Package server provides HTTP routing and middleware for the reel metrics service.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Routes
//
// [NewRouter] wires the routes served by `reel serve`:
//   - /metrics : Prometheus exposition of the TMDb client and controller collectors
//   - /health : JSON status of the preference store and other [Pinger] checks
//   - /favorites : the stored favorites set
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
