package http

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/project-dashboard/internal/projects/domain"
)

func (h *Handler) getDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "dashboard": h.dash.View()})
}

func (h *Handler) setEditMode(c *gin.Context) {
	var req editModeReq
	if !bindOptional(c, &req) {
		return
	}
	v, err := h.dash.SetEditMode(c.Request.Context(), req.Enabled)
	respond(c, http.StatusOK, v, err)
}

func (h *Handler) dismissError(c *gin.Context) {
	v, err := h.dash.DismissError(c.Request.Context())
	respond(c, http.StatusOK, v, err)
}

func (h *Handler) create(c *gin.Context) {
	var req projectReq
	if !bindOptional(c, &req) {
		return
	}
	v, err := h.dash.CreateProject(c.Request.Context(), req.patch())
	respond(c, http.StatusCreated, v, err)
}

func (h *Handler) replace(c *gin.Context) {
	var p domain.Project
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, "invalid body")
		return
	}
	if err := validateDocument(p); err != nil {
		badRequest(c, err.Error())
		return
	}
	v, err := h.dash.ReplaceProject(c.Request.Context(), c.Param("id"), p)
	respond(c, http.StatusOK, v, err)
}

func (h *Handler) edit(c *gin.Context) {
	var req projectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body")
		return
	}
	v, err := h.dash.EditProject(c.Request.Context(), c.Param("id"), req.patch())
	respond(c, http.StatusOK, v, err)
}

func (h *Handler) delete(c *gin.Context) {
	v, err := h.dash.DeleteProject(c.Request.Context(), c.Param("id"))
	respond(c, http.StatusOK, v, err)
}

func (h *Handler) selectProject(c *gin.Context) {
	v, err := h.dash.Select(c.Request.Context(), c.Param("id"))
	respond(c, http.StatusOK, v, err)
}

// validateDocument checks the enumerated fields of a full replacement
// document. Patches get the same checks from binding tags.
func validateDocument(p domain.Project) error {
	for _, f := range p.Features {
		if !slices.Contains(domain.Statuses, f.Status) {
			return fmt.Errorf("feature %d: invalid status %q", f.ID, f.Status)
		}
		if !slices.Contains(domain.FeatureCategories, f.Category) {
			return fmt.Errorf("feature %d: invalid category %q", f.ID, f.Category)
		}
	}
	for _, t := range p.UIUXTasks {
		if !slices.Contains(domain.Statuses, t.Status) {
			return fmt.Errorf("task %d: invalid status %q", t.ID, t.Status)
		}
		if !slices.Contains(domain.Priorities, t.Priority) {
			return fmt.Errorf("task %d: invalid priority %q", t.ID, t.Priority)
		}
	}
	return nil
}
