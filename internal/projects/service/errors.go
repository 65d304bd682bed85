package service

import (
	"errors"
	"time"

	"github.com/GoSim-25-26J-441/project-dashboard/internal/projects/domain"
)

var (
	ErrNotConnected = errors.New("dashboard is not connected to a project store")
	ErrStopped      = errors.New("dashboard controller stopped")
	ErrStaleWrite   = errors.New("identity changed before the write completed")
	ErrWriteFailed  = errors.New("project store write failed")
)

// Kind classifies what the error slot is showing.
type Kind string

const (
	KindAuthFailure  Kind = "auth_failure"
	KindSubscription Kind = "subscription_error"
	KindWrite        Kind = "write_failure"
	KindInvariant    Kind = "invariant_violation"
)

// ErrorSlot is the single user-visible error. Raw backend errors never reach
// it; Message is written for the person looking at the dashboard.
type ErrorSlot struct {
	Kind    Kind      `json:"kind"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// invariantMessage returns the message for a rejected intent, or "" when err
// is not a local validation failure.
func invariantMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrLastProject):
		return "Cannot delete the last remaining project."
	case errors.Is(err, domain.ErrNotFound):
		return "That project no longer exists."
	case errors.Is(err, domain.ErrNoActiveProject):
		return "No project is selected."
	case errors.Is(err, domain.ErrNotActiveProject):
		return "Only the selected project can be edited."
	case errors.Is(err, domain.ErrItemNotFound):
		return "That item no longer exists."
	case errors.Is(err, domain.ErrInvalidIndex):
		return "That phase task no longer exists."
	case errors.Is(err, ErrNotConnected):
		return "The dashboard is not connected yet."
	}
	return ""
}

var writeMessages = map[string]string{
	opCreate: "Failed to create project.",
	opDelete: "Failed to delete project.",
	opSeed:   "Failed to create the starter project.",
}

func writeFailureMessage(op string) string {
	if msg, ok := writeMessages[op]; ok {
		return msg
	}
	return "Failed to update project."
}
