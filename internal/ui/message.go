package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/reelx/internal/models"
	"github.com/desertthunder/reelx/internal/rating"
	"github.com/desertthunder/reelx/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgSessionLoaded MsgKind = iota
	MsgProgressUpdate
	MsgDetailLoaded
	MsgMutationDone
	MsgRatingSubmitted
)

type sessionLoaded struct {
	result *tasks.SessionResult
	err    error
}

type detailLoaded struct {
	movieID int
	movie   *models.Movie
	err     error
}

type mutationDone struct {
	action  models.Action
	movieID int
	err     error
}

type ratingSubmitted struct {
	workflow *rating.Workflow
	ok       bool
	err      error
}

// sessionLoadedMsg is the constructor for [MsgSessionLoaded]
func sessionLoadedMsg(result *tasks.SessionResult, err error) Msg {
	return Msg{kind: MsgSessionLoaded, data: sessionLoaded{result, err}}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// detailLoadedMsg is the constructor for [MsgDetailLoaded]
func detailLoadedMsg(movieID int, movie *models.Movie, err error) Msg {
	return Msg{kind: MsgDetailLoaded, data: detailLoaded{movieID, movie, err}}
}

// mutationDoneMsg is the constructor for [MsgMutationDone]
func mutationDoneMsg(action models.Action, movieID int, err error) Msg {
	return Msg{kind: MsgMutationDone, data: mutationDone{action, movieID, err}}
}

// ratingSubmittedMsg is the constructor for [MsgRatingSubmitted]
func ratingSubmittedMsg(w *rating.Workflow, ok bool, err error) Msg {
	return Msg{kind: MsgRatingSubmitted, data: ratingSubmitted{w, ok, err}}
}
