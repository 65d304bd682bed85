package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/project-dashboard/internal/projects/domain"
	"github.com/GoSim-25-26J-441/project-dashboard/internal/projects/service"
)

const defaultKeepAlive = 15 * time.Second

// Handler exposes the dashboard controller over HTTP.
type Handler struct {
	dash      *service.Controller
	keepAlive time.Duration
}

func New(dash *service.Controller) *Handler {
	return &Handler{dash: dash, keepAlive: defaultKeepAlive}
}

// projectReq is a partial edit of the top-level project fields.
type projectReq struct {
	Name        *string `json:"name" binding:"omitempty,min=1"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
	Color       *string `json:"color"`
}

func (r projectReq) patch() domain.ProjectPatch {
	return domain.ProjectPatch{Name: r.Name, Description: r.Description, Icon: r.Icon, Color: r.Color}
}

type featureReq struct {
	Name     *string `json:"name"`
	Status   *string `json:"status" binding:"omitempty,oneof=done progress next"`
	Files    *string `json:"files"`
	Category *string `json:"category" binding:"omitempty,oneof=Frontend Backend UI/UX API Database Auth Infrastructure Core AI/ML"`
}

func (r featureReq) patch() domain.FeaturePatch {
	return domain.FeaturePatch{Name: r.Name, Status: r.Status, Files: r.Files, Category: r.Category}
}

type taskReq struct {
	Name        *string `json:"name"`
	Status      *string `json:"status" binding:"omitempty,oneof=done progress next"`
	Description *string `json:"description"`
	Priority    *string `json:"priority" binding:"omitempty,oneof=high medium low"`
}

func (r taskReq) patch() domain.TaskPatch {
	return domain.TaskPatch{Name: r.Name, Status: r.Status, Description: r.Description, Priority: r.Priority}
}

type phaseReq struct {
	Name     *string `json:"name"`
	Timeline *string `json:"timeline"`
	Color    *string `json:"color"`
}

func (r phaseReq) patch() domain.PhasePatch {
	return domain.PhasePatch{Name: r.Name, Timeline: r.Timeline, Color: r.Color}
}

type techReq struct {
	Category *string `json:"category"`
	Tech     *string `json:"tech"`
	Icon     *string `json:"icon" binding:"omitempty,oneof=FileText Shield Upload Database Zap Cloud Clock Video Users Settings Calendar Target Lightbulb"`
}

func (r techReq) patch() domain.TechPatch {
	return domain.TechPatch{Category: r.Category, Tech: r.Tech, Icon: r.Icon}
}

type phaseTaskReq struct {
	Text string `json:"text"`
}

type editModeReq struct {
	Enabled *bool `json:"enabled"`
}

// statusFor maps a controller error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrItemNotFound),
		errors.Is(err, domain.ErrInvalidIndex):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrLastProject),
		errors.Is(err, domain.ErrNoActiveProject),
		errors.Is(err, domain.ErrNotActiveProject),
		errors.Is(err, service.ErrStaleWrite):
		return http.StatusConflict
	case errors.Is(err, service.ErrWriteFailed):
		return http.StatusBadGateway
	case errors.Is(err, service.ErrNotConnected),
		errors.Is(err, service.ErrStopped):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// respond writes the envelope for an intent result. Rejected and failed
// writes carry the message the controller put in its error slot.
func respond(c *gin.Context, okStatus int, v service.View, err error) {
	if err == nil {
		c.JSON(okStatus, gin.H{"ok": true, "dashboard": v})
		return
	}
	msg := err.Error()
	if v.Error != nil && (v.Error.Kind == service.KindInvariant || v.Error.Kind == service.KindWrite) {
		msg = v.Error.Message
	}
	c.JSON(statusFor(err), gin.H{"ok": false, "error": msg, "dashboard": v})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": msg})
}
