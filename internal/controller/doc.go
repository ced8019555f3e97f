// Package controller manages the request lifecycle of the movie views.
//
// # Sessions
//
// Every fetch runs as a [Session]: a sequence number, a [Kind], a cancellable context and a status that leaves
// pending exactly once (resolved, failed or cancelled). Kinds fall into categories. initial and search replace
// the result set, paginate extends it, details loads a single movie.
//
// Starting a session cancels the pending session of its category. A replace session also cancels a pending
// paginate because the list it would extend is going away. When a response arrives, it is applied only if its
// session is still the current one of its category; everything else is dropped silently.
//
// # List View
//
// [ListController] implements initial load, "load more" pagination, search and teardown:
//   - [ListController.StartInitialLoad] loads page 1 of the popular listing
//   - [ListController.LoadMore] appends the next page; a no-op while anything is pending, while search results
//     are shown, or at the last page
//   - [ListController.Search] replaces the list with matches; a blank query behaves like StartInitialLoad
//   - [ListController.CancelAll] cancels everything so late responses are ignored
//
// State changes are delivered to a [RenderFunc] as a [ViewState]: Idle, Loading, Error or Ready.
// A failed refresh keeps the previous result set in the Error state.
//
// # Details View
//
// [DetailController] fetches details and credits concurrently with errgroup and keeps the favorite flag
// in sync with [Favorites], a JSON array of ids stored in a [PreferenceStore].
package controller
