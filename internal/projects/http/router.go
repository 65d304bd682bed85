package http

import "github.com/gin-gonic/gin"

// Register attaches dashboard and project routes to rg. The writes handlers
// (rate limiting, token checks) guard every mutating route.
func (h *Handler) Register(rg *gin.RouterGroup, writes ...gin.HandlerFunc) {
	rg.GET("/dashboard", h.getDashboard)
	rg.GET("/dashboard/events", h.streamEvents)

	w := rg.Group("", writes...)
	w.POST("/dashboard/edit-mode", h.setEditMode)
	w.DELETE("/dashboard/error", h.dismissError)

	w.POST("/projects", h.create)
	w.PUT("/projects/:id", h.replace)
	w.PATCH("/projects/:id", h.edit)
	w.DELETE("/projects/:id", h.delete)
	w.POST("/projects/:id/select", h.selectProject)

	w.POST("/projects/:id/features", h.addFeature)
	w.PATCH("/projects/:id/features/:itemId", h.updateFeature)
	w.DELETE("/projects/:id/features/:itemId", h.removeFeature)

	w.POST("/projects/:id/tasks", h.addTask)
	w.PATCH("/projects/:id/tasks/:itemId", h.updateTask)
	w.DELETE("/projects/:id/tasks/:itemId", h.removeTask)

	w.POST("/projects/:id/phases", h.addPhase)
	w.PATCH("/projects/:id/phases/:itemId", h.updatePhase)
	w.DELETE("/projects/:id/phases/:itemId", h.removePhase)
	w.POST("/projects/:id/phases/:itemId/tasks", h.addPhaseTask)
	w.PATCH("/projects/:id/phases/:itemId/tasks/:index", h.updatePhaseTask)
	w.DELETE("/projects/:id/phases/:itemId/tasks/:index", h.removePhaseTask)

	w.POST("/projects/:id/tech", h.addTech)
	w.PATCH("/projects/:id/tech/:itemId", h.updateTech)
	w.DELETE("/projects/:id/tech/:itemId", h.removeTech)
}
