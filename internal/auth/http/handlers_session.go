package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/project-dashboard/internal/auth/domain"
)

// GetSession reports the session state and, when ready, the identity.
func (h *Handler) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "session": toResponse(h.session.Status())})
}

// SignIn (re)establishes an identity after a sign-out or a failed start.
func (h *Handler) SignIn(c *gin.Context) {
	st := h.session.Start(c.Request.Context())
	switch st.State {
	case domain.StateReady, domain.StateUnavailable:
		c.JSON(http.StatusOK, gin.H{"ok": true, "session": toResponse(st)})
	case domain.StateInitializing:
		c.JSON(http.StatusAccepted, gin.H{"ok": true, "session": toResponse(st)})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": "could not sign in", "session": toResponse(st)})
	}
}

// SignOut ends the session; the dashboard drops its subscription.
func (h *Handler) SignOut(c *gin.Context) {
	if err := h.session.SignOut(); err != nil {
		if errors.Is(err, domain.ErrNotReady) {
			c.JSON(http.StatusConflict, gin.H{"ok": false, "error": "not signed in"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "sign-out failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "session": toResponse(h.session.Status())})
}
