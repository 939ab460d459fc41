package models

import (
	"fmt"
	"time"
)

// Action names a collection mutation.
type Action string

const (
	ActionAddWatchlist    Action = "watchlist.add"
	ActionRemoveWatchlist Action = "watchlist.remove"
	ActionMarkViewed      Action = "viewed.upsert"
	ActionRemoveViewed    Action = "viewed.remove"
)

func (a Action) Valid() bool {
	switch a {
	case ActionAddWatchlist, ActionRemoveWatchlist, ActionMarkViewed, ActionRemoveViewed:
		return true
	}
	return false
}

// Activity is a journaled mutation attempt.
//
// Fields are private so only the repository assigns identity and sequence.
type Activity struct {
	id        string
	sequence  int
	userID    UserID
	action    Action
	movieID   int
	rating    int
	success   bool
	errMsg    string
	createdAt time.Time
}

// NewActivity creates an unsaved [Activity]. A nil err marks it successful.
func NewActivity(userID UserID, action Action, movieID, rating int, err error) *Activity {
	a := &Activity{
		userID:    userID,
		action:    action,
		movieID:   movieID,
		rating:    rating,
		success:   err == nil,
		createdAt: time.Now().UTC(),
	}
	if err != nil {
		a.errMsg = err.Error()
	}
	return a
}

// RestoreActivity rebuilds a persisted [Activity] from stored columns.
func RestoreActivity(id string, sequence int, userID UserID, action Action, movieID, rating int, success bool, errMsg string, createdAt time.Time) *Activity {
	return &Activity{
		id:        id,
		sequence:  sequence,
		userID:    userID,
		action:    action,
		movieID:   movieID,
		rating:    rating,
		success:   success,
		errMsg:    errMsg,
		createdAt: createdAt,
	}
}

func (a *Activity) ID() string           { return a.id }
func (a *Activity) Sequence() int        { return a.sequence }
func (a *Activity) UserID() UserID       { return a.userID }
func (a *Activity) Action() Action       { return a.action }
func (a *Activity) MovieID() int         { return a.movieID }
func (a *Activity) Rating() int          { return a.rating }
func (a *Activity) Success() bool        { return a.success }
func (a *Activity) Error() string        { return a.errMsg }
func (a *Activity) CreatedAt() time.Time { return a.createdAt }

func (a *Activity) SetID(id string)     { a.id = id }
func (a *Activity) SetSequence(seq int) { a.sequence = seq }

// Validate checks the activity before it is written.
func (a *Activity) Validate() error {
	if a.userID <= 0 {
		return fmt.Errorf("user id must be positive")
	}
	if !a.action.Valid() {
		return fmt.Errorf("unknown action %q", a.action)
	}
	if a.movieID <= 0 {
		return fmt.Errorf("movie id must be positive")
	}
	if a.action == ActionMarkViewed && !ValidRating(a.rating) {
		return fmt.Errorf("rating %d out of range", a.rating)
	}
	return nil
}
