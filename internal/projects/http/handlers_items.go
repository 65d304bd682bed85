package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// itemID parses the :itemId path parameter.
func itemID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("itemId"), 10, 64)
	if err != nil {
		badRequest(c, "invalid item id")
		return 0, false
	}
	return id, true
}

func taskIndex(c *gin.Context) (int, bool) {
	i, err := strconv.Atoi(c.Param("index"))
	if err != nil || i < 0 {
		badRequest(c, "invalid task index")
		return 0, false
	}
	return i, true
}

// bindOptional binds a JSON body when one was sent. Intents that accept an
// empty body fall back to their defaults. A chunked body has no length, so an
// empty one only shows up as EOF.
func bindOptional(c *gin.Context, req any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(req); err != nil {
		if errors.Is(err, io.EOF) {
			return true
		}
		badRequest(c, "invalid body: "+err.Error())
		return false
	}
	return true
}

// Features

func (h *Handler) addFeature(c *gin.Context) {
	var req featureReq
	if !bindOptional(c, &req) {
		return
	}
	v, err := h.dash.AddFeature(c.Request.Context(), c.Param("id"), req.patch())
	respond(c, http.StatusCreated, v, err)
}

func (h *Handler) updateFeature(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}
	var req featureReq
	if !bindOptional(c, &req) {
		return
	}
	v, err := h.dash.UpdateFeature(c.Request.Context(), c.Param("id"), id, req.patch())
	respond(c, http.StatusOK, v, err)
}

func (h *Handler) removeFeature(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}
	v, err := h.dash.RemoveFeature(c.Request.Context(), c.Param("id"), id)
	respond(c, http.StatusOK, v, err)
}

// UI/UX tasks

func (h *Handler) addTask(c *gin.Context) {
	var req taskReq
	if !bindOptional(c, &req) {
		return
	}
	v, err := h.dash.AddTask(c.Request.Context(), c.Param("id"), req.patch())
	respond(c, http.StatusCreated, v, err)
}

func (h *Handler) updateTask(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}
	var req taskReq
	if !bindOptional(c, &req) {
		return
	}
	v, err := h.dash.UpdateTask(c.Request.Context(), c.Param("id"), id, req.patch())
	respond(c, http.StatusOK, v, err)
}

func (h *Handler) removeTask(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}
	v, err := h.dash.RemoveTask(c.Request.Context(), c.Param("id"), id)
	respond(c, http.StatusOK, v, err)
}

// Phases

func (h *Handler) addPhase(c *gin.Context) {
	var req phaseReq
	if !bindOptional(c, &req) {
		return
	}
	v, err := h.dash.AddPhase(c.Request.Context(), c.Param("id"), req.patch())
	respond(c, http.StatusCreated, v, err)
}

func (h *Handler) updatePhase(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}
	var req phaseReq
	if !bindOptional(c, &req) {
		return
	}
	v, err := h.dash.UpdatePhase(c.Request.Context(), c.Param("id"), id, req.patch())
	respond(c, http.StatusOK, v, err)
}

func (h *Handler) removePhase(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}
	v, err := h.dash.RemovePhase(c.Request.Context(), c.Param("id"), id)
	respond(c, http.StatusOK, v, err)
}

func (h *Handler) addPhaseTask(c *gin.Context) {
	phaseID, ok := itemID(c)
	if !ok {
		return
	}
	var req phaseTaskReq
	if !bindOptional(c, &req) {
		return
	}
	v, err := h.dash.AddPhaseTask(c.Request.Context(), c.Param("id"), phaseID, req.Text)
	respond(c, http.StatusCreated, v, err)
}

func (h *Handler) updatePhaseTask(c *gin.Context) {
	phaseID, ok := itemID(c)
	if !ok {
		return
	}
	index, ok := taskIndex(c)
	if !ok {
		return
	}
	var req phaseTaskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body")
		return
	}
	v, err := h.dash.UpdatePhaseTask(c.Request.Context(), c.Param("id"), phaseID, index, req.Text)
	respond(c, http.StatusOK, v, err)
}

func (h *Handler) removePhaseTask(c *gin.Context) {
	phaseID, ok := itemID(c)
	if !ok {
		return
	}
	index, ok := taskIndex(c)
	if !ok {
		return
	}
	v, err := h.dash.RemovePhaseTask(c.Request.Context(), c.Param("id"), phaseID, index)
	respond(c, http.StatusOK, v, err)
}

// Tech stack

func (h *Handler) addTech(c *gin.Context) {
	var req techReq
	if !bindOptional(c, &req) {
		return
	}
	v, err := h.dash.AddTechItem(c.Request.Context(), c.Param("id"), req.patch())
	respond(c, http.StatusCreated, v, err)
}

func (h *Handler) updateTech(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}
	var req techReq
	if !bindOptional(c, &req) {
		return
	}
	v, err := h.dash.UpdateTechItem(c.Request.Context(), c.Param("id"), id, req.patch())
	respond(c, http.StatusOK, v, err)
}

func (h *Handler) removeTech(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}
	v, err := h.dash.RemoveTechItem(c.Request.Context(), c.Param("id"), id)
	respond(c, http.StatusOK, v, err)
}
