package http

import "github.com/gin-gonic/gin"

// Guards are the middleware chains in front of the mutating session routes.
// Sign-in cannot require a token for the session user, since after a
// sign-out there is none.
type Guards struct {
	SignIn  []gin.HandlerFunc
	SignOut []gin.HandlerFunc
}

func (h *Handler) Register(rg *gin.RouterGroup, g Guards) {
	rg.GET("", h.GetSession)
	rg.Group("", g.SignIn...).POST("/sign-in", h.SignIn)
	rg.Group("", g.SignOut...).POST("/sign-out", h.SignOut)
}
