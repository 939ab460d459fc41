// package rating implements the per-movie star rating workflow.
package rating

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/reelx/internal/models"
	"github.com/desertthunder/reelx/internal/shared"
)

// State is a [Workflow] stage.
type State int

const (
	Unselected State = iota
	Selected
	Submitted
	Cancelled
)

func (s State) String() string {
	switch s {
	case Unselected:
		return "unselected"
	case Selected:
		return "selected"
	case Submitted:
		return "submitted"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether no further transitions are allowed.
func (s State) Terminal() bool { return s == Submitted || s == Cancelled }

// Marker persists a rating. [collection.Sync] satisfies it.
type Marker interface {
	MarkViewed(ctx context.Context, movie models.Movie, rating int) error
}

var labels = [...]string{"", "Poor", "Fair", "Good", "Great", "Excellent"}

// Label names a star rating, or returns "" outside [1,5].
func Label(r int) string {
	if !models.ValidRating(r) {
		return ""
	}
	return labels[r]
}

// Stars renders r filled stars out of five.
func Stars(r int) string {
	r = max(0, min(r, models.MaxRating))
	return strings.Repeat("★", r) + strings.Repeat("☆", models.MaxRating-r)
}

// Workflow drives one rating for one movie. Discard it once it reaches a terminal state.
type Workflow struct {
	movie  models.Movie
	marker Marker
	state  State
	rating int
}

// New starts an unselected workflow for movie.
func New(movie models.Movie, marker Marker) *Workflow {
	return &Workflow{movie: movie, marker: marker}
}

// NewWithRating starts a workflow preselected at current, or unselected when current is not a valid rating.
func NewWithRating(movie models.Movie, marker Marker, current int) *Workflow {
	w := New(movie, marker)
	if models.ValidRating(current) {
		w.state, w.rating = Selected, current
	}
	return w
}

func (w *Workflow) Movie() models.Movie { return w.movie }
func (w *Workflow) State() State        { return w.state }
func (w *Workflow) Rating() int         { return w.rating }

// Label names the currently selected rating.
func (w *Workflow) Label() string { return Label(w.rating) }

// Select picks r stars. Reselection is unlimited; an out-of-range r leaves the workflow unchanged.
func (w *Workflow) Select(r int) error {
	if w.state.Terminal() {
		return fmt.Errorf("%w: %s", shared.ErrWorkflowClosed, w.state)
	}
	if !models.ValidRating(r) {
		return fmt.Errorf("%w: got %d", shared.ErrInvalidRating, r)
	}
	w.rating = r
	w.state = Selected
	return nil
}

// Submit sends the selected rating.
//
// From Unselected it returns false without calling the service.
// A failed submission keeps the workflow Selected so the caller can submit again.
func (w *Workflow) Submit(ctx context.Context) (bool, error) {
	switch w.state {
	case Unselected:
		return false, nil
	case Submitted, Cancelled:
		return false, fmt.Errorf("%w: %s", shared.ErrWorkflowClosed, w.state)
	}

	if err := w.marker.MarkViewed(ctx, w.movie, w.rating); err != nil {
		return false, err
	}
	w.state = Submitted
	return true, nil
}

// Cancel discards the rating without contacting the service.
func (w *Workflow) Cancel() error {
	if w.state.Terminal() {
		return fmt.Errorf("%w: %s", shared.ErrWorkflowClosed, w.state)
	}
	w.state = Cancelled
	w.rating = 0
	return nil
}
