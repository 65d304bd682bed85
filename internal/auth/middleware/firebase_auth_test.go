package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/GoSim-25-26J-441/project-dashboard/internal/auth/domain"
)

type verifierFunc func(string) (string, error)

func (f verifierFunc) VerifyToken(_ context.Context, token string) (string, error) { return f(token) }

type fixedStatus domain.Status

func (s fixedStatus) Status() domain.Status { return domain.Status(s) }

func TestRequireSessionToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	verifier := verifierFunc(func(token string) (string, error) {
		switch token {
		case "alice-token":
			return "alice", nil
		case "bob-token":
			return "bob", nil
		}
		return "", domain.ErrInvalidToken
	})
	ready := fixedStatus{State: domain.StateReady, Identity: &domain.Identity{UID: "alice"}}

	tests := []struct {
		name   string
		status fixedStatus
		header string
		want   int
	}{
		{"missing token", ready, "", http.StatusUnauthorized},
		{"malformed header", ready, "Token alice-token", http.StatusUnauthorized},
		{"invalid token", ready, "Bearer nope", http.StatusUnauthorized},
		{"other user", ready, "Bearer bob-token", http.StatusForbidden},
		{"session not ready", fixedStatus{State: domain.StateUninitialized}, "Bearer alice-token", http.StatusForbidden},
		{"session user", ready, "Bearer alice-token", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/x", RequireSessionToken(verifier, tt.status), func(c *gin.Context) {
				c.String(http.StatusOK, c.GetString(CtxFirebaseUID))
			})

			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				assert.Equal(t, "alice", w.Body.String())
			}
		})
	}
}
