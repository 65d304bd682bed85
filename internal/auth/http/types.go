package http

import (
	"context"

	"github.com/GoSim-25-26J-441/project-dashboard/internal/auth/domain"
)

// SessionService is the part of the session the HTTP layer drives.
type SessionService interface {
	Status() domain.Status
	Start(ctx context.Context) domain.Status
	SignOut() error
}

type Handler struct {
	session SessionService
}

func New(session SessionService) *Handler {
	return &Handler{session: session}
}

type sessionResponse struct {
	State    domain.State     `json:"state"`
	Identity *domain.Identity `json:"identity,omitempty"`
	Error    string           `json:"error,omitempty"`
}

func toResponse(st domain.Status) sessionResponse {
	resp := sessionResponse{State: st.State, Identity: st.Identity}
	if st.Err != nil {
		resp.Error = "could not sign in"
	}
	return resp
}
