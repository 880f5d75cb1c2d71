// Package stage names the four per-format pipeline stages, the states a
// format moves through while they run, and the outcome recorded for each.
package stage

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Name identifies a pipeline stage.
type Name string

const (
	Render Name = "render"
	Encode Name = "encode"
	Mux    Name = "mux"
	Still  Name = "still"
)

// Order is the fixed per-format execution order.
var Order = []Name{Render, Encode, Mux, Still}

// Label returns the display form of a stage name.
func (n Name) Label() string {
	return cases.Title(language.English).String(string(n))
}

// Running returns the state a format is in while n executes.
func (n Name) Running() State {
	switch n {
	case Render:
		return StateRendering
	case Encode:
		return StateEncoding
	case Mux:
		return StateMuxing
	case Still:
		return StateStillPending
	default:
		return StateNotStarted
	}
}

// State is a format's position in the Render → Encode → Mux → Still machine.
type State string

const (
	StateNotStarted   State = "not_started"
	StateRendering    State = "rendering"
	StateEncoding     State = "encoding"
	StateMuxing       State = "muxing"
	StateStillPending State = "still_pending"
	StateDone         State = "done"
	StateFailed       State = "failed"
)

// Outcome records what happened to a stage during one run.
type Outcome string

const (
	OutcomeExecuted   Outcome = "executed"
	OutcomeSkipped    Outcome = "skipped"
	OutcomeFailed     Outcome = "failed"
	OutcomeNotReached Outcome = "not_reached"
)
