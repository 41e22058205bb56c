package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"werise_backend/internal/config"
	"werise_backend/internal/model"
	"werise_backend/internal/repository"
	"werise_backend/internal/service"
	"werise_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGateway struct{}

func (stubGateway) GenerateRoadmap(ctx context.Context, profile *model.UserProfile, pool []model.Course) (*service.RoadmapDraft, error) {
	return &service.RoadmapDraft{Title: "QA to PO", Courses: pool[:2]}, nil
}

func (stubGateway) GetAdvice(ctx context.Context, question string, profile *model.UserProfile) (string, error) {
	return "", util.ErrGatewayUnavailable
}

func (stubGateway) GetFeedback(ctx context.Context, score, total int, profile *model.UserProfile) (string, error) {
	return "Nice work.", nil
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Server: config.ServerConfig{Port: "0", Mode: gin.TestMode},
		Store:  config.StoreConfig{Driver: util.StoreMemory},
		JWT:    config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour},
		AI:     config.AIConfig{Provider: util.AIProviderOpenAI},
		Auth: config.AuthConfig{SystemAccount: config.SystemAccountConfig{
			Enabled: true, Email: "admin@werise.app", Password: "admin123", Name: "System Admin",
		}},
		Storage:   config.StorageConfig{Type: util.StorageLocal, LocalPath: t.TempDir()},
		CORS:      config.CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}},
		RateLimit: config.RateLimitConfig{MaxRequests: 10000, WindowMinutes: 1},
	}
	a := &App{Config: cfg}
	require.NoError(t, a.assemble(repository.NewNamespacedStore(repository.NewMemoryStore()), stubGateway{}))
	return a
}

type apiResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (a *App) do(t *testing.T, method, path, device, token string, body any) (int, apiResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if device != "" {
		req.Header.Set(util.DeviceHeader, device)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)

	var resp apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w.Code, resp
}

func (a *App) signIn(t *testing.T, device, email, password string) service.SignInResult {
	t.Helper()
	code, resp := a.do(t, http.MethodPost, "/api/auth/signin", device, "", gin.H{"email": email, "password": password})
	require.Equal(t, http.StatusOK, code, resp.Message)
	var res service.SignInResult
	require.NoError(t, json.Unmarshal(resp.Data, &res))
	return res
}

func TestHealth(t *testing.T) {
	a := newTestApp(t)
	code, resp := a.do(t, http.MethodGet, "/api/health", "", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(resp.Data), `"store":"memory"`)
}

func TestSignUpSignInFlow(t *testing.T) {
	a := newTestApp(t)
	const device = "laptop-1"

	code, _ := a.do(t, http.MethodPost, "/api/auth/signup", device, "",
		gin.H{"name": "Alice", "email": "alice@x.com", "password": "pw123", "role": "user"})
	require.Equal(t, http.StatusCreated, code)

	code, resp := a.do(t, http.MethodPost, "/api/auth/signup", device, "",
		gin.H{"name": "Alice", "email": "alice@x.com", "password": "other"})
	assert.Equal(t, http.StatusConflict, code, resp.Message)

	code, _ = a.do(t, http.MethodPost, "/api/auth/signin", device, "", gin.H{"email": "alice@x.com", "password": "bad"})
	assert.Equal(t, http.StatusUnauthorized, code)

	res := a.signIn(t, device, "alice@x.com", "pw123")
	assert.Equal(t, model.RoleUser, res.Profile.Role)

	code, resp = a.do(t, http.MethodGet, "/api/profile", device, res.Token, nil)
	require.Equal(t, http.StatusOK, code)
	var profile model.UserProfile
	require.NoError(t, json.Unmarshal(resp.Data, &profile))
	assert.Equal(t, "alice@x.com", profile.Email)

	// 令牌绑定设备
	code, _ = a.do(t, http.MethodGet, "/api/profile", "phone-2", res.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = a.do(t, http.MethodPost, "/api/auth/signout", device, res.Token, nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = a.do(t, http.MethodGet, "/api/profile", device, res.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestUnauthenticatedAndForbidden(t *testing.T) {
	a := newTestApp(t)

	code, _ := a.do(t, http.MethodGet, "/api/dashboard", "", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = a.do(t, http.MethodGet, "/api/health", "bad device!", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	a.do(t, http.MethodPost, "/api/auth/signup", "", "", gin.H{"name": "Bob", "email": "bob@x.com", "password": "pw"})
	bob := a.signIn(t, "", "bob@x.com", "pw")

	code, _ = a.do(t, http.MethodGet, "/api/admin/stats", "", bob.Token, nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = a.do(t, http.MethodGet, "/api/mentor/assignments", "", bob.Token, nil)
	assert.Equal(t, http.StatusForbidden, code)

	admin := a.signIn(t, "", "admin@werise.app", "admin123")
	code, resp := a.do(t, http.MethodGet, "/api/admin/stats", "", admin.Token, nil)
	require.Equal(t, http.StatusOK, code)
	var stats service.AdminStats
	require.NoError(t, json.Unmarshal(resp.Data, &stats))
	assert.Equal(t, 1, stats.RegisteredUsers)
	assert.Equal(t, 11, stats.Courses)
}

func TestRoadmapAndCurationFlow(t *testing.T) {
	a := newTestApp(t)
	const device = "shared-kiosk"

	a.do(t, http.MethodPost, "/api/auth/signup", device, "", gin.H{"name": "Alice", "email": "alice@x.com", "password": "pw"})
	a.do(t, http.MethodPost, "/api/auth/signup", device, "", gin.H{"name": "Priya", "email": "priya@x.com", "password": "pw", "role": "mentor", "mentorId": "1"})

	alice := a.signIn(t, device, "alice@x.com", "pw")
	code, resp := a.do(t, http.MethodPost, "/api/path/generate", device, alice.Token,
		gin.H{"background": "QA", "skills": []string{"SQL"}, "availabilityHoursPerWeek": 5})
	require.Equal(t, http.StatusCreated, code, resp.Message)

	code, _ = a.do(t, http.MethodPatch, "/api/path/courses/sql-1", device, alice.Token, gin.H{"status": "Completed"})
	require.Equal(t, http.StatusOK, code)

	code, resp = a.do(t, http.MethodGet, "/api/dashboard", device, alice.Token, nil)
	require.Equal(t, http.StatusOK, code)
	var dash service.Dashboard
	require.NoError(t, json.Unmarshal(resp.Data, &dash))
	assert.Equal(t, 50, dash.OverallProgress)

	code, resp = a.do(t, http.MethodPost, "/api/mentors/1/chat", device, alice.Token, gin.H{"text": "hello"})
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(resp.Data), service.AdviceFallback)

	code, _ = a.do(t, http.MethodPost, "/api/mentors/1/link", device, alice.Token, nil)
	require.Equal(t, http.StatusOK, code)

	// 待筛选路径不能由学员添加课程
	code, _ = a.do(t, http.MethodPost, "/api/path/courses", device, alice.Token, gin.H{"courseId": "sql-2"})
	assert.Equal(t, http.StatusConflict, code)

	priya := a.signIn(t, device, "priya@x.com", "pw")
	code, resp = a.do(t, http.MethodGet, "/api/mentor/assignments", device, priya.Token, nil)
	require.Equal(t, http.StatusOK, code)
	var assignments []model.Assignment
	require.NoError(t, json.Unmarshal(resp.Data, &assignments))
	require.Len(t, assignments, 1)
	assert.Equal(t, "alice@x.com", assignments[0].CandidateEmail)

	code, _ = a.do(t, http.MethodPost, "/api/mentor/assignments/alice@x.com/curate", device, priya.Token, gin.H{"courseIds": []string{}})
	assert.Equal(t, http.StatusBadRequest, code)

	code, resp = a.do(t, http.MethodPost, "/api/mentor/assignments/alice@x.com/curate", device, priya.Token,
		gin.H{"courseIds": []string{"api-4", "sql-3"}})
	require.Equal(t, http.StatusOK, code, resp.Message)

	alice = a.signIn(t, device, "alice@x.com", "pw")
	require.NotNil(t, alice.Path)
	assert.Equal(t, model.PathActive, alice.Path.Status)
	require.Len(t, alice.Path.Courses, 2)
	assert.Equal(t, "api-4", alice.Path.Courses[0].ID)
}

func TestExamFlow(t *testing.T) {
	a := newTestApp(t)
	a.do(t, http.MethodPost, "/api/auth/signup", "", "", gin.H{"name": "Alice", "email": "alice@x.com", "password": "pw"})
	alice := a.signIn(t, "", "alice@x.com", "pw")

	code, resp := a.do(t, http.MethodGet, "/api/exam", "", alice.Token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.NotContains(t, string(resp.Data), "correctIndex")

	code, resp = a.do(t, http.MethodPost, "/api/exam/submit", "", alice.Token, gin.H{"answers": []int{1, 2, 0}})
	require.Equal(t, http.StatusOK, code, resp.Message)
	var result model.EvaluationResult
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	assert.Equal(t, 3, result.Score)
	assert.Equal(t, "Nice work.", result.Feedback)
}

func TestResetDevice(t *testing.T) {
	a := newTestApp(t)
	const device = "kiosk-7"

	a.do(t, http.MethodPost, "/api/auth/signup", device, "", gin.H{"name": "Alice", "email": "alice@x.com", "password": "pw"})
	admin := a.signIn(t, device, "admin@werise.app", "admin123")
	code, _ := a.do(t, http.MethodDelete, "/api/admin/courses/sql-1", device, admin.Token, nil)
	require.Equal(t, http.StatusOK, code)

	// 其他设备不受影响
	a.do(t, http.MethodPost, "/api/auth/signup", "other", "", gin.H{"name": "Bob", "email": "bob@x.com", "password": "pw"})

	code, _ = a.do(t, http.MethodDelete, "/api/device", device, admin.Token, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = a.do(t, http.MethodGet, "/api/profile", device, admin.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, code, "session ends with the reset")

	code, _ = a.do(t, http.MethodPost, "/api/auth/signin", device, "", gin.H{"email": "alice@x.com", "password": "pw"})
	assert.Equal(t, http.StatusUnauthorized, code, "registered users are cleared")

	admin = a.signIn(t, device, "admin@werise.app", "admin123")
	code, resp := a.do(t, http.MethodGet, "/api/admin/stats", device, admin.Token, nil)
	require.Equal(t, http.StatusOK, code)
	var stats service.AdminStats
	require.NoError(t, json.Unmarshal(resp.Data, &stats))
	assert.Equal(t, len(model.DefaultCourses()), stats.Courses)
	assert.Equal(t, 0, stats.RegisteredUsers)
	assert.Equal(t, 0, stats.Assignments)

	bob := a.signIn(t, "other", "bob@x.com", "pw")
	assert.Equal(t, "bob@x.com", bob.Profile.Email)
}

func TestSwaggerDocListsRoutes(t *testing.T) {
	a := newTestApp(t)
	req := httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil)
	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var doc struct {
		BasePath string                    `json:"basePath"`
		Paths    map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "/", doc.BasePath)
	assert.Contains(t, doc.Paths["/api/path/generate"], "post")
	assert.Contains(t, doc.Paths["/api/mentor/assignments/{email}/curate"], "post")
	assert.Contains(t, doc.Paths["/api/device"], "delete")
}
