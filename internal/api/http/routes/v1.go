package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/project-dashboard/internal/api/http/middleware"
	authhttp "github.com/GoSim-25-26J-441/project-dashboard/internal/auth/http"
	projecthttp "github.com/GoSim-25-26J-441/project-dashboard/internal/projects/http"
)

type V1Deps struct {
	Dashboard *projecthttp.Handler
	Session   *authhttp.Handler

	APIKey         string
	WriteRateLimit float64
	WriteRateBurst int
	// TokenCheck, when set, guards every mutating route except sign-in in
	// addition to the rate limiter.
	TokenCheck gin.HandlerFunc
}

func RegisterV1(r *gin.Engine, dep V1Deps) {
	api := r.Group("/api/v1")
	api.Use(middleware.APIKey(dep.APIKey))

	limit := middleware.WriteLimit(dep.WriteRateLimit, dep.WriteRateBurst)
	writes := []gin.HandlerFunc{limit}
	if dep.TokenCheck != nil {
		writes = append(writes, dep.TokenCheck)
	}

	dep.Session.Register(api.Group("/session"), authhttp.Guards{
		SignIn:  []gin.HandlerFunc{limit},
		SignOut: writes,
	})
	dep.Dashboard.Register(api, writes...)
}
