package controller

import (
	"fmt"

	"github.com/desertthunder/reel/internal/models"
)

// ViewStatus is the coarse state of a view.
type ViewStatus int

const (
	Idle ViewStatus = iota
	Loading
	Error
	Ready
)

func (v ViewStatus) String() string {
	switch v {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Error:
		return "error"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// ViewState is what a list renderer draws.
//
// Items is the current result set and is also populated while Loading or in Error,
// so a renderer can keep showing the last good list.
type ViewState struct {
	Status      ViewStatus
	Kind        Kind // kind of the session that produced this state
	Items       []models.Movie
	Page        int
	TotalPages  int
	Query       string // query of the displayed results; empty for the popular listing
	Message     string // user-facing error text when Status is Error
	FailedQuery string // query of the failed session when Status is Error
	Err         error
}

// HasMore reports whether another page can be requested.
func (v ViewState) HasMore() bool {
	return v.Query == "" && v.Page < v.TotalPages
}

func (v ViewState) String() string {
	switch v.Status {
	case Error:
		return fmt.Sprintf("%s(%s): %s", v.Status, v.Kind, v.Message)
	case Loading:
		return fmt.Sprintf("%s(%s)", v.Status, v.Kind)
	default:
		return fmt.Sprintf("%s: %d items, page %d/%d", v.Status, len(v.Items), v.Page, v.TotalPages)
	}
}

// RenderFunc receives every state change of a [ListController].
//
// It is called with the controller lock held so calls never overlap and arrive in order.
// It must not call back into the controller.
type RenderFunc func(ViewState)

// DetailState is what a details renderer draws.
type DetailState struct {
	Status   ViewStatus
	MovieID  int
	View     *models.MovieView
	Favorite bool
	Message  string
	Err      error
}

// DetailRenderFunc receives every state change of a [DetailController], under the same rules as [RenderFunc].
type DetailRenderFunc func(DetailState)
