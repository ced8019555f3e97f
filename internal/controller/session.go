package controller

import (
	"context"
	"time"

	"github.com/desertthunder/reel/internal/shared"
)

// Kind is what triggered a fetch session.
type Kind int

const (
	KindInitial Kind = iota
	KindPaginate
	KindSearch
	KindDetails
)

func (k Kind) String() string {
	switch k {
	case KindInitial:
		return "initial"
	case KindPaginate:
		return "paginate"
	case KindSearch:
		return "search"
	case KindDetails:
		return "details"
	default:
		return "unknown"
	}
}

// Category groups kinds that supersede each other.
type Category int

const (
	// CategoryReplace sessions replace the result set (initial, search).
	CategoryReplace Category = iota
	// CategoryExtend sessions append to the result set (paginate).
	CategoryExtend
	// CategoryDetails sessions load a single movie view.
	CategoryDetails
)

// Category returns the supersession category of k.
func (k Kind) Category() Category {
	switch k {
	case KindPaginate:
		return CategoryExtend
	case KindDetails:
		return CategoryDetails
	default:
		return CategoryReplace
	}
}

// Status is the lifecycle position of a session. A session leaves [StatusPending] exactly once.
type Status int

const (
	StatusPending Status = iota
	StatusResolved
	StatusCancelled
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusResolved:
		return "resolved"
	case StatusCancelled:
		return "cancelled"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Session is one logical in-flight fetch. Sessions are never reused.
//
// Fields other than status are immutable after creation; status is guarded by the owning controller's mutex.
type Session struct {
	ID      string
	Seq     uint64
	Kind    Kind
	Page    int
	Query   string
	MovieID int
	Started time.Time

	ctx    context.Context
	cancel context.CancelFunc
	status Status
}

func newSession(seq uint64, kind Kind) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		ID:      shared.GenerateID(),
		Seq:     seq,
		Kind:    kind,
		Started: time.Now(),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Status returns the current lifecycle status. Callers must hold the owning controller's lock.
func (s *Session) Status() Status { return s.status }

// finish moves a pending session to st and releases its context.
// It reports false when the session had already left pending.
func (s *Session) finish(st Status) bool {
	if s.status != StatusPending {
		return false
	}
	s.status = st
	s.cancel()
	sessionsTotal.WithLabelValues(s.Kind.String(), st.String()).Inc()
	sessionDuration.WithLabelValues(s.Kind.String()).Observe(time.Since(s.Started).Seconds())
	return true
}
