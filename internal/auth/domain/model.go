package domain

import "time"

// State is a step of the session state machine:
// Uninitialized -> Initializing -> Ready, with Unavailable (no remote
// configuration, local mode) and Failed (no identity could be established)
// as terminal outcomes of Start.
type State int

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
	StateUnavailable
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateUnavailable:
		return "unavailable"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Method records how an identity was established.
type Method string

const (
	MethodSession   Method = "session"
	MethodToken     Method = "token"
	MethodAnonymous Method = "anonymous"
)

// Identity is the signed-in user every remote document is addressed under.
type Identity struct {
	UID        string    `json:"uid"`
	Method     Method    `json:"method"`
	Anonymous  bool      `json:"anonymous"`
	SignedInAt time.Time `json:"signed_in_at"`
}

// Status is what Session.Status and Session.Changes report. Identity is only
// set in StateReady; Err only in StateFailed.
type Status struct {
	State    State     `json:"state"`
	Identity *Identity `json:"identity,omitempty"`
	Err      error     `json:"-"`
}

// UID returns the ready identity's uid, or "" in any other state.
func (s Status) UID() string {
	if s.State != StateReady || s.Identity == nil {
		return ""
	}
	return s.Identity.UID
}

// Account is the identity provider's view of a user.
type Account struct {
	UID       string
	Disabled  bool
	Anonymous bool
}
