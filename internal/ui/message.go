package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/reel/internal/controller"
)

// searchDebounce is the quiet period after the last keystroke before a search is issued.
const searchDebounce = 300 * time.Millisecond

type listStateMsg controller.ViewState

type detailStateMsg controller.DetailState

// searchTickMsg fires after [searchDebounce]; only the tick matching the latest edit searches.
type searchTickMsg struct {
	seq   int
	query string
}

type genresLoadedMsg struct{ err error }

type favoriteToggledMsg struct {
	favorite bool
	err      error
}

type statusMsg string

// mailbox hands the latest value from a render callback to the bubbletea loop.
//
// put never blocks: an undelivered value is replaced by the newer one.
type mailbox[T any] struct {
	ch chan T
}

func newMailbox[T any]() *mailbox[T] {
	return &mailbox[T]{ch: make(chan T, 1)}
}

func (m *mailbox[T]) put(v T) {
	for {
		select {
		case m.ch <- v:
			return
		default:
		}
		select {
		case <-m.ch:
		default:
		}
	}
}

// wait returns a command that blocks until the next value and converts it with wrap.
func (m *mailbox[T]) wait(wrap func(T) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return wrap(<-m.ch)
	}
}

func debounceSearch(seq int, query string) tea.Cmd {
	return tea.Tick(searchDebounce, func(time.Time) tea.Msg {
		return searchTickMsg{seq: seq, query: query}
	})
}
