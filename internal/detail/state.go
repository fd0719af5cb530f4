// Package detail drives the mystery box detail screen: a four-state machine
// around a single fetch, and the mapping from state to display strings.
package detail

import (
	"fmt"

	"github.com/Dffarhn/recyle-food-mobile/internal/domain"
)

// Status discriminates the variants of State.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// UnknownError replaces an empty failure diagnostic.
const UnknownError = "unknown error"

// State is a closed variant. Box is set only for StatusSuccess and Message
// only for StatusError. Build values with Idle, Loading, Success and Failure.
type State struct {
	Status  Status
	Box     *domain.MysteryBox
	Message string
}

// Idle is the state before any fetch has been attempted.
func Idle() State { return State{Status: StatusIdle} }

// Loading is the state while a fetch is in flight.
func Loading() State { return State{Status: StatusLoading} }

// Success carries the fetched record.
func Success(box *domain.MysteryBox) State {
	return State{Status: StatusSuccess, Box: box}
}

// Failure carries a human-readable diagnostic, never empty.
func Failure(message string) State {
	if message == "" {
		message = UnknownError
	}
	return State{Status: StatusError, Message: message}
}

// Terminal reports whether the state ends a fetch cycle.
func (s State) Terminal() bool {
	return s.Status == StatusSuccess || s.Status == StatusError
}

func (s State) String() string {
	switch s.Status {
	case StatusSuccess:
		if s.Box != nil {
			return "success(" + s.Box.ID + ")"
		}
	case StatusError:
		return "error(" + s.Message + ")"
	}
	return s.Status.String()
}
