package http

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authservice "github.com/GoSim-25-26J-441/project-dashboard/internal/auth/service"
	"github.com/GoSim-25-26J-441/project-dashboard/internal/projects/domain"
	"github.com/GoSim-25-26J-441/project-dashboard/internal/projects/repository"
	"github.com/GoSim-25-26J-441/project-dashboard/internal/projects/service"
)

type dashboardBody struct {
	Status   string                   `json:"status"`
	Projects []service.ProjectSummary `json:"projects"`
	ActiveID string                   `json:"active_id"`
	Active   *domain.Project          `json:"active"`
	Stats    *domain.Stats            `json:"stats"`
	EditMode bool                     `json:"edit_mode"`
	Error    *service.ErrorSlot       `json:"error"`
}

type envelope struct {
	OK        bool          `json:"ok"`
	Error     string        `json:"error"`
	Dashboard dashboardBody `json:"dashboard"`
}

func newTestRouter(t *testing.T, projects ...domain.Project) (*gin.Engine, *Handler) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	session := authservice.NewSession(nil, authservice.SessionOptions{}, nil)
	session.Start(context.Background())

	dash := service.New(repository.NewLocalStore(projects...), session, service.Options{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = dash.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	require.Eventually(t, func() bool { return dash.View().Status == service.StatusReady }, 2*time.Second, 5*time.Millisecond)

	h := New(dash)
	r := gin.New()
	h.Register(r.Group("/api/v1"))
	return r, h
}

func call(t *testing.T, r http.Handler, method, path, body string) (int, envelope) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func twoProjects() []domain.Project {
	return []domain.Project{
		{ID: "a", Name: "Alpha", Features: []domain.Feature{{ID: 1, Name: "Login", Status: domain.StatusDone, Category: "Auth"}}},
		{ID: "b", Name: "Beta"},
	}
}

func TestGetDashboard(t *testing.T) {
	r, _ := newTestRouter(t, twoProjects()...)

	code, env := call(t, r, http.MethodGet, "/api/v1/dashboard", "")
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.OK)
	assert.Equal(t, "ready", env.Dashboard.Status)
	assert.Equal(t, "a", env.Dashboard.ActiveID)
	require.NotNil(t, env.Dashboard.Stats)
	assert.Equal(t, 100, env.Dashboard.Stats.FeatureCompletion)
	assert.Len(t, env.Dashboard.Projects, 2)
}

func TestProjectLifecycle(t *testing.T) {
	r, _ := newTestRouter(t, twoProjects()...)

	code, env := call(t, r, http.MethodPost, "/api/v1/projects", `{"name":"Gamma"}`)
	require.Equal(t, http.StatusCreated, code, env.Error)
	assert.True(t, env.Dashboard.EditMode)
	require.NotNil(t, env.Dashboard.Active)
	assert.Equal(t, "Gamma", env.Dashboard.Active.Name)
	newID := env.Dashboard.ActiveID
	assert.True(t, strings.HasPrefix(newID, "local-"))

	code, env = call(t, r, http.MethodPatch, "/api/v1/projects/"+newID, `{"description":"third"}`)
	require.Equal(t, http.StatusOK, code, env.Error)
	assert.Equal(t, "third", env.Dashboard.Active.Description)
	assert.Equal(t, "Gamma", env.Dashboard.Active.Name)

	code, env = call(t, r, http.MethodPost, "/api/v1/projects/b/select", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "b", env.Dashboard.ActiveID)

	code, env = call(t, r, http.MethodDelete, "/api/v1/projects/"+newID, "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, env.Dashboard.Projects, 2)

	code, _ = call(t, r, http.MethodDelete, "/api/v1/projects/nope", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestDeleteLastProject(t *testing.T) {
	r, _ := newTestRouter(t, domain.Project{ID: "only", Name: "Only"})

	code, env := call(t, r, http.MethodDelete, "/api/v1/projects/only", "")
	assert.Equal(t, http.StatusConflict, code)
	assert.False(t, env.OK)
	assert.Equal(t, "Cannot delete the last remaining project.", env.Error)
	assert.Len(t, env.Dashboard.Projects, 1)

	code, env = call(t, r, http.MethodDelete, "/api/v1/dashboard/error", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Nil(t, env.Dashboard.Error)
}

func TestItemRoutes(t *testing.T) {
	r, _ := newTestRouter(t, twoProjects()...)

	t.Run("add with defaults", func(t *testing.T) {
		code, env := call(t, r, http.MethodPost, "/api/v1/projects/a/tasks", "")
		require.Equal(t, http.StatusCreated, code, env.Error)
		require.Len(t, env.Dashboard.Active.UIUXTasks, 1)
		assert.Equal(t, domain.PriorityMedium, env.Dashboard.Active.UIUXTasks[0].Priority)
	})

	t.Run("enum fields are validated", func(t *testing.T) {
		code, _ := call(t, r, http.MethodPost, "/api/v1/projects/a/features", `{"status":"finished"}`)
		assert.Equal(t, http.StatusBadRequest, code)

		code, _ = call(t, r, http.MethodPost, "/api/v1/projects/a/tech", `{"icon":"Rocket"}`)
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("update and remove a feature", func(t *testing.T) {
		code, env := call(t, r, http.MethodPatch, "/api/v1/projects/a/features/1", `{"status":"progress"}`)
		require.Equal(t, http.StatusOK, code, env.Error)
		assert.Equal(t, domain.StatusProgress, env.Dashboard.Active.Features[0].Status)
		assert.Equal(t, 0, env.Dashboard.Stats.FeatureCompletion)

		code, env = call(t, r, http.MethodDelete, "/api/v1/projects/a/features/1", "")
		require.Equal(t, http.StatusOK, code)
		assert.Empty(t, env.Dashboard.Active.Features)

		code, _ = call(t, r, http.MethodDelete, "/api/v1/projects/a/features/1", "")
		assert.Equal(t, http.StatusNotFound, code)
	})

	t.Run("bad item id", func(t *testing.T) {
		code, _ := call(t, r, http.MethodPatch, "/api/v1/projects/a/features/abc", `{}`)
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("items only change the active project", func(t *testing.T) {
		code, env := call(t, r, http.MethodPost, "/api/v1/projects/b/features", "")
		assert.Equal(t, http.StatusConflict, code)
		assert.Equal(t, "Only the selected project can be edited.", env.Error)
	})

	t.Run("phase tasks", func(t *testing.T) {
		code, env := call(t, r, http.MethodPost, "/api/v1/projects/a/phases", `{"name":"MVP"}`)
		require.Equal(t, http.StatusCreated, code, env.Error)
		phaseID := env.Dashboard.Active.Phases[0].ID
		base := "/api/v1/projects/a/phases/" + strconv.FormatInt(phaseID, 10) + "/tasks"

		code, env = call(t, r, http.MethodPost, base, "")
		require.Equal(t, http.StatusCreated, code, env.Error)
		assert.Equal(t, []string{domain.NewPhaseTask}, env.Dashboard.Active.Phases[0].Tasks)

		code, env = call(t, r, http.MethodPatch, base+"/0", `{"text":"Ship it"}`)
		require.Equal(t, http.StatusOK, code, env.Error)
		assert.Equal(t, []string{"Ship it"}, env.Dashboard.Active.Phases[0].Tasks)

		code, _ = call(t, r, http.MethodDelete, base+"/5", "")
		assert.Equal(t, http.StatusNotFound, code)

		code, _ = call(t, r, http.MethodDelete, base+"/-1", "")
		assert.Equal(t, http.StatusBadRequest, code)
	})
}

func TestReplaceProject(t *testing.T) {
	r, _ := newTestRouter(t, twoProjects()...)

	code, _ := call(t, r, http.MethodPut, "/api/v1/projects/a", `{"name":"X","uiuxTasks":[{"id":1,"status":"next","priority":"urgent"}]}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, env := call(t, r, http.MethodPut, "/api/v1/projects/a", `{"name":"Rewritten"}`)
	require.Equal(t, http.StatusOK, code, env.Error)
	assert.Equal(t, "Rewritten", env.Dashboard.Active.Name)
	assert.Empty(t, env.Dashboard.Active.Features, "replace is a full document write")
	assert.NotNil(t, env.Dashboard.Active.Features)
}

func TestEditMode(t *testing.T) {
	r, _ := newTestRouter(t, twoProjects()...)

	_, env := call(t, r, http.MethodPost, "/api/v1/dashboard/edit-mode", "")
	assert.True(t, env.Dashboard.EditMode)

	_, env = call(t, r, http.MethodPost, "/api/v1/dashboard/edit-mode", `{"enabled":true}`)
	assert.True(t, env.Dashboard.EditMode)

	_, env = call(t, r, http.MethodPost, "/api/v1/dashboard/edit-mode", `{"enabled":false}`)
	assert.False(t, env.Dashboard.EditMode)
}

// callChunked sends body without a Content-Length, as a streaming client
// would.
func callChunked(t *testing.T, r http.Handler, method, path, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, io.MultiReader(strings.NewReader(body)))
	require.EqualValues(t, -1, req.ContentLength)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func TestChunkedBodies(t *testing.T) {
	r, _ := newTestRouter(t, twoProjects()...)

	_, env := callChunked(t, r, http.MethodPost, "/api/v1/dashboard/edit-mode", `{"enabled":true}`)
	assert.True(t, env.Dashboard.EditMode)
	_, env = callChunked(t, r, http.MethodPost, "/api/v1/dashboard/edit-mode", `{"enabled":true}`)
	assert.True(t, env.Dashboard.EditMode, "an explicit value sets, it does not toggle")

	_, env = callChunked(t, r, http.MethodPost, "/api/v1/dashboard/edit-mode", "")
	assert.False(t, env.Dashboard.EditMode, "an empty body toggles")

	code, env := callChunked(t, r, http.MethodPost, "/api/v1/dashboard/edit-mode", `{"enabled":`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, env.OK)

	code, env = callChunked(t, r, http.MethodPost, "/api/v1/projects", `{"name":"Chunked"}`)
	require.Equal(t, http.StatusCreated, code)
	require.NotNil(t, env.Dashboard.Active)
	assert.Equal(t, "Chunked", env.Dashboard.Active.Name)
}

func TestStreamEvents(t *testing.T) {
	r, h := newTestRouter(t, twoProjects()...)
	h.keepAlive = 10 * time.Millisecond

	srv := httptest.NewServer(r)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/dashboard/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	sc := bufio.NewScanner(resp.Body)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var sawView, sawPing bool
	for sc.Scan() && !(sawView && sawPing) {
		line := sc.Text()
		switch {
		case line == "event: view":
			sawView = true
		case line == ": keep-alive":
			sawPing = true
		case strings.HasPrefix(line, "data: "):
			var v dashboardBody
			require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &v))
			assert.Equal(t, "a", v.ActiveID)
		}
	}
	assert.True(t, sawView)
	assert.True(t, sawPing)
}
