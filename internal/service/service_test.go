package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
	"werise_backend/internal/config"
	"werise_backend/internal/model"
	"werise_backend/internal/repository"

	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

// fakeGateway 记录调用次数，按配置返回结果或错误
type fakeGateway struct {
	mu sync.Mutex

	draft       *RoadmapDraft
	roadmapErr  error
	advice      string
	adviceErr   error
	feedback    string
	feedbackErr error

	roadmapCalls int
	lastPool     []model.Course
}

func (g *fakeGateway) GenerateRoadmap(ctx context.Context, profile *model.UserProfile, pool []model.Course) (*RoadmapDraft, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.roadmapCalls++
	g.lastPool = pool
	if g.roadmapErr != nil {
		return nil, g.roadmapErr
	}
	if g.draft != nil {
		return g.draft, nil
	}
	return nil, errors.New("no draft configured")
}

func (g *fakeGateway) GetAdvice(ctx context.Context, question string, profile *model.UserProfile) (string, error) {
	return g.advice, g.adviceErr
}

func (g *fakeGateway) GetFeedback(ctx context.Context, score, total int, profile *model.UserProfile) (string, error) {
	return g.feedback, g.feedbackErr
}

type testEnv struct {
	ctx     context.Context
	cfg     *config.Config
	store   repository.Store
	gateway *fakeGateway

	users         *repository.UserRepository
	sessions      *repository.SessionRepository
	paths         *repository.LearningPathRepository
	courses       *repository.CourseRepository
	mentors       *repository.MentorRepository
	assignments   *repository.AssignmentRepository
	questions     *repository.QuestionRepository
	notifications *repository.NotificationRepository

	auth      *AuthService
	pathSvc   *LearningPathService
	mentorSvc *MentorService
	examSvc   *QuestionService
	userSvc   *UserService
	dashboard *DashboardService
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server: config.ServerConfig{Mode: "test"},
		Store:  config.StoreConfig{Driver: "memory"},
		JWT:    config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour},
		AI:     config.AIConfig{Provider: "openai", RoadmapLength: 6},
		Auth: config.AuthConfig{SystemAccount: config.SystemAccountConfig{
			Enabled:  true,
			Email:    "admin@werise.app",
			Password: "admin123",
			Name:     "System Admin",
		}},
		Storage: config.StorageConfig{Type: "local", LocalPath: t.TempDir()},
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithStore(t, repository.NewNamespacedStore(repository.NewMemoryStore()))
}

// slowStore 读取后停顿，模拟 redis/mysql 的往返延迟
type slowStore struct {
	repository.Store
	delay time.Duration
}

func (s slowStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, ok, err := s.Store.Get(ctx, key)
	time.Sleep(s.delay)
	return raw, ok, err
}

func newTestEnvWithStore(t *testing.T, store repository.Store) *testEnv {
	t.Helper()
	cfg := testConfig(t)
	gw := &fakeGateway{}

	env := &testEnv{
		ctx:           repository.WithNamespace(context.Background(), "device-a"),
		cfg:           cfg,
		store:         store,
		gateway:       gw,
		users:         repository.NewUserRepository(store),
		sessions:      repository.NewSessionRepository(store),
		paths:         repository.NewLearningPathRepository(store),
		courses:       repository.NewCourseRepository(store),
		mentors:       repository.NewMentorRepository(store),
		assignments:   repository.NewAssignmentRepository(store),
		questions:     repository.NewQuestionRepository(store),
		notifications: repository.NewNotificationRepository(store),
	}
	now := func() time.Time { return fixedNow }

	env.auth = NewAuthService(env.users, env.sessions, env.paths, cfg)
	env.pathSvc = NewLearningPathService(env.sessions, env.paths, env.courses, env.notifications, gw)
	env.pathSvc.Now = now
	env.mentorSvc = NewMentorService(env.mentors, env.assignments, env.paths, env.sessions,
		env.courses, env.notifications, env.pathSvc, NewStorageService(cfg), gw)
	env.mentorSvc.Now = now
	env.examSvc = NewQuestionService(env.questions, gw)
	env.examSvc.Now = now
	env.userSvc = NewUserService(env.sessions, store)
	env.dashboard = NewDashboardService(env.sessions, env.notifications, env.users, env.courses,
		env.questions, env.mentors, env.assignments, env.paths)
	return env
}

// signUpAndIn 注册并登录，返回会话资料
func (e *testEnv) signUpAndIn(t *testing.T, name, email, password, role string) *model.UserProfile {
	t.Helper()
	_, err := e.auth.SignUp(e.ctx, SignUpInput{Name: name, Email: email, Password: password, Role: role})
	require.NoError(t, err)
	res, err := e.auth.SignIn(e.ctx, email, password)
	require.NoError(t, err)
	return res.Profile
}
