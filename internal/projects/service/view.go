package service

import (
	authdomain "github.com/GoSim-25-26J-441/project-dashboard/internal/auth/domain"
	"github.com/GoSim-25-26J-441/project-dashboard/internal/projects/domain"
)

// Status is the dashboard's display state.
type Status string

const (
	StatusSignedOut Status = "signed_out"
	StatusLoading   Status = "loading"
	StatusEmpty     Status = "empty"
	StatusReady     Status = "ready"
	StatusFailed    Status = "failed"
)

var allStatuses = []Status{StatusSignedOut, StatusLoading, StatusEmpty, StatusReady, StatusFailed}

// ProjectSummary is the selector entry for one project.
type ProjectSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
}

// View is an immutable rendering of controller state. Every state change
// produces a new View with a higher Version.
type View struct {
	Version  uint64               `json:"version"`
	Status   Status               `json:"status"`
	Backend  string               `json:"backend"`
	Session  authdomain.State     `json:"session"`
	Identity *authdomain.Identity `json:"identity,omitempty"`
	Projects []ProjectSummary     `json:"projects"`
	ActiveID string               `json:"active_id,omitempty"`
	Active   *domain.Project      `json:"active,omitempty"`
	Stats    *domain.Stats        `json:"stats,omitempty"`
	EditMode bool                 `json:"edit_mode"`
	Error    *ErrorSlot           `json:"error,omitempty"`
}

func (c *Controller) buildView() View {
	v := View{
		Status:   c.displayStatus(),
		Backend:  c.backend.Name(),
		Session:  c.session.State,
		Identity: c.session.Identity,
		Projects: make([]ProjectSummary, 0, len(c.projects)),
		EditMode: c.editMode,
	}
	for _, p := range c.projects {
		v.Projects = append(v.Projects, ProjectSummary{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Icon:        p.Icon,
			Color:       p.Color,
		})
	}
	if active, ok := domain.Find(c.projects, c.activeID); ok {
		active = active.Normalize()
		stats := domain.ComputeStats(active)
		v.ActiveID = active.ID
		v.Active = &active
		v.Stats = &stats
	}
	if c.errSlot != nil {
		slot := *c.errSlot
		v.Error = &slot
	}
	return v
}

func (c *Controller) displayStatus() Status {
	switch c.session.State {
	case authdomain.StateFailed:
		return StatusFailed
	case authdomain.StateUninitialized:
		return StatusSignedOut
	case authdomain.StateInitializing:
		return StatusLoading
	}
	switch {
	case !c.loaded:
		return StatusLoading
	case len(c.projects) == 0:
		return StatusEmpty
	default:
		return StatusReady
	}
}
