package service

import (
	"errors"
	"sync"
	"testing"
	"time"
	"werise_backend/internal/model"
	"werise_backend/internal/repository"
	"werise_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assessment() AssessmentInput {
	return AssessmentInput{
		Name:                     "Alice",
		Background:               "QA Engineer",
		Skills:                   []string{"SQL", "Jira", "sql"},
		AvailabilityHoursPerWeek: 8,
		CareerGoal:               "Lead a fintech product",
	}
}

func TestGenerateRoadmap_Success(t *testing.T) {
	env := newTestEnv(t)
	env.signUpAndIn(t, "Alice", "alice@x.com", "pw123", "")

	all := model.DefaultCourses()
	env.gateway.draft = &RoadmapDraft{Title: "QA to PO", Courses: []model.Course{all[6], all[0]}}

	res, err := env.pathSvc.GenerateRoadmap(env.ctx, assessment())
	require.NoError(t, err)

	assert.Equal(t, "QA Engineer", res.Profile.Background)
	assert.Equal(t, []string{"SQL", "Jira"}, res.Profile.Skills)
	assert.Equal(t, 8, res.Profile.AvailabilityHoursPerWeek)
	assert.Equal(t, "Lead a fintech product", res.Profile.CareerGoal)

	assert.Equal(t, "QA to PO", res.Path.Title)
	assert.Equal(t, model.PathActive, res.Path.Status)
	assert.Equal(t, 0, res.Path.OverallProgress)
	require.Len(t, res.Path.Courses, 2)
	assert.Equal(t, "api-1", res.Path.Courses[0].ID)
	assert.Equal(t, model.Timestamp(fixedNow), res.Path.LastUpdated)
	assert.Len(t, env.gateway.lastPool, len(all))

	session, err := env.sessions.GetPath(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, res.Path.ID, session.ID)

	registered, err := env.paths.FindByCandidate(env.ctx, "alice@x.com")
	require.NoError(t, err)
	require.NotNil(t, registered)
	assert.Equal(t, res.Path.ID, registered.ID)

	n, err := env.notifications.List(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, RoadmapReadyMessage, n[0])
}

func TestGenerateRoadmap_FailureLeavesStateUntouched(t *testing.T) {
	env := newTestEnv(t)
	env.signUpAndIn(t, "Alice", "alice@x.com", "pw123", "")
	before, err := env.sessions.GetProfile(env.ctx)
	require.NoError(t, err)

	env.gateway.roadmapErr = util.ErrGatewayUnavailable
	_, err = env.pathSvc.GenerateRoadmap(env.ctx, assessment())
	assert.ErrorIs(t, err, util.ErrRoadmapNotGenerated)
	assert.ErrorIs(t, err, util.ErrGatewayUnavailable)

	after, err := env.sessions.GetProfile(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	path, err := env.sessions.GetPath(env.ctx)
	require.NoError(t, err)
	assert.Nil(t, path)

	paths, err := env.paths.List(env.ctx)
	require.NoError(t, err)
	assert.Empty(t, paths)

	n, err := env.notifications.List(env.ctx)
	require.NoError(t, err)
	assert.Empty(t, n)
}

func TestGenerateRoadmap_EmptyPoolFabricatesNothing(t *testing.T) {
	env := newTestEnv(t)
	env.signUpAndIn(t, "Alice", "alice@x.com", "pw123", "")
	require.NoError(t, repository.SetJSON(env.ctx, env.store, repository.KeyCourses, []model.Course{}))

	// 真实网关在课程池为空时直接拒绝
	gw := newAIServiceWithCompleter(env.cfg.AI, &fakeCompleter{reply: `{"title":"x","selectedCourseIds":["sql-1"]}`})
	env.pathSvc.Gateway = gw

	_, err := env.pathSvc.GenerateRoadmap(env.ctx, assessment())
	assert.ErrorIs(t, err, util.ErrRoadmapNotGenerated)
	assert.ErrorIs(t, err, util.ErrEmptyCoursePool)

	path, err := env.sessions.GetPath(env.ctx)
	require.NoError(t, err)
	assert.Nil(t, path)
}

func TestGenerateRoadmap_RequiresSession(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.pathSvc.GenerateRoadmap(env.ctx, assessment())
	assert.ErrorIs(t, err, util.ErrNotSignedIn)
	assert.Zero(t, env.gateway.roadmapCalls)
}

func TestPathMutations(t *testing.T) {
	env := newTestEnv(t)
	env.signUpAndIn(t, "Alice", "alice@x.com", "pw123", "")

	_, err := env.pathSvc.AddCourseToPath(env.ctx, "sql-1")
	assert.ErrorIs(t, err, util.ErrNoActivePath)

	env.gateway.draft = &RoadmapDraft{Title: "t", Courses: model.DefaultCourses()[:1]}
	_, err = env.pathSvc.GenerateRoadmap(env.ctx, assessment())
	require.NoError(t, err)

	p, err := env.pathSvc.AddCourseToPath(env.ctx, "api-2")
	require.NoError(t, err)
	require.Len(t, p.Courses, 2)

	p, err = env.pathSvc.AddCourseToPath(env.ctx, "api-2")
	require.NoError(t, err)
	assert.Len(t, p.Courses, 2, "adding twice is a no-op")

	_, err = env.pathSvc.AddCourseToPath(env.ctx, "missing")
	assert.ErrorIs(t, err, util.ErrCourseNotFound)

	p, err = env.pathSvc.SetCourseStatus(env.ctx, "api-2", model.CourseCompleted)
	require.NoError(t, err)
	assert.Equal(t, 50, p.OverallProgress)

	p, err = env.pathSvc.SetCourseStatus(env.ctx, "api-2", model.CourseNotStarted)
	require.NoError(t, err)
	assert.Equal(t, 0, p.OverallProgress)

	p, err = env.pathSvc.RemoveCourseFromPath(env.ctx, "sql-1")
	require.NoError(t, err)
	assert.Len(t, p.Courses, 1)

	_, err = env.pathSvc.RemoveCourseFromPath(env.ctx, "sql-1")
	assert.ErrorIs(t, err, util.ErrCourseNotFound)

	// 修改同步写入登记表
	registered, err := env.paths.FindByCandidate(env.ctx, "alice@x.com")
	require.NoError(t, err)
	require.Len(t, registered.Courses, 1)
	assert.Equal(t, "api-2", registered.Courses[0].ID)
}

func TestAddCustomCourse(t *testing.T) {
	env := newTestEnv(t)
	env.signUpAndIn(t, "Alice", "alice@x.com", "pw123", "")
	require.NoError(t, env.sessions.SavePath(env.ctx, model.NewActivePath("alice@x.com", "t", nil, fixedNow)))

	p, err := env.pathSvc.AddCustomCourse(env.ctx, CustomCourseInput{Title: "Scrum Guide", DurationHours: 1.5})
	require.NoError(t, err)
	require.Len(t, p.Courses, 1)
	c := p.Courses[0]
	assert.Equal(t, UserAddedCategory, c.Category)
	assert.Equal(t, DefaultCustomSource, c.Source)
	assert.Equal(t, model.LevelBasic, c.Level)
	assert.Equal(t, model.CourseNotStarted, c.Status)

	_, err = env.pathSvc.AddCustomCourse(env.ctx, CustomCourseInput{Title: "x"})
	assert.ErrorIs(t, err, util.ErrValidation)
}

func TestCreatePendingPathAndCurate(t *testing.T) {
	env := newTestEnv(t)

	p, err := env.pathSvc.CreatePendingPath(env.ctx, " Bob@X.com", "")
	require.NoError(t, err)
	assert.Equal(t, "bob@x.com", p.CandidateEmail)
	assert.Equal(t, PendingPathTitle, p.Title)
	assert.Equal(t, model.PathPending, p.Status)
	assert.Empty(t, p.Courses)

	_, err = env.pathSvc.Curate(env.ctx, "bob@x.com", nil)
	assert.True(t, errors.Is(err, util.ErrEmptyCuration))

	all := model.DefaultCourses()
	curated, err := env.pathSvc.Curate(env.ctx, "bob@x.com", []model.Course{all[3], all[1]})
	require.NoError(t, err)
	assert.Equal(t, p.ID, curated.ID)
	assert.Equal(t, model.PathActive, curated.Status)
	assert.Equal(t, "sql-4", curated.Courses[0].ID)

	// 登记表中没有路径时新建
	created, err := env.pathSvc.Curate(env.ctx, "carol@x.com", all[:1])
	require.NoError(t, err)
	assert.Equal(t, "carol@x.com", created.CandidateEmail)
	assert.Equal(t, model.PathActive, created.Status)
}

func TestSetCourseStatus_ConcurrentRequests(t *testing.T) {
	store := slowStore{Store: repository.NewNamespacedStore(repository.NewMemoryStore()), delay: 2 * time.Millisecond}
	env := newTestEnvWithStore(t, store)
	env.signUpAndIn(t, "Alice", "alice@x.com", "pw123", "")

	courses := model.DefaultCourses()[:6]
	env.gateway.draft = &RoadmapDraft{Title: "t", Courses: courses}
	_, err := env.pathSvc.GenerateRoadmap(env.ctx, assessment())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for _, c := range courses {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := env.pathSvc.SetCourseStatus(env.ctx, id, model.CourseCompleted)
			assert.NoError(t, err)
		}(c.ID)
	}
	wg.Wait()

	session, err := env.sessions.GetPath(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, session.CompletedCount())
	assert.Equal(t, 100, session.OverallProgress)

	registered, err := env.paths.FindByCandidate(env.ctx, "alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, 6, registered.CompletedCount())
	assert.Equal(t, 100, registered.OverallProgress)
}

func TestAddCourse_RejectsPendingPath(t *testing.T) {
	env := newTestEnv(t)
	alice := env.signUpAndIn(t, "Alice", "alice@x.com", "pw123", "")
	_, _, err := env.mentorSvc.LinkCandidateToMentor(env.ctx, alice, "1")
	require.NoError(t, err)

	_, err = env.pathSvc.AddCourseToPath(env.ctx, "sql-1")
	assert.ErrorIs(t, err, util.ErrPathPending)
	_, err = env.pathSvc.AddCustomCourse(env.ctx, CustomCourseInput{Title: "Scrum Guide", DurationHours: 1})
	assert.ErrorIs(t, err, util.ErrPathPending)

	session, err := env.sessions.GetPath(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, model.PathPending, session.Status)
	assert.Empty(t, session.Courses)

	registered, err := env.paths.FindByCandidate(env.ctx, "alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, model.PathPending, registered.Status)
	assert.Empty(t, registered.Courses)

	// 导师筛选后可以继续添加
	_, err = env.mentorSvc.CurateAndActivate(env.ctx, nil, "alice@x.com", []string{"api-1"})
	require.NoError(t, err)
	p, err := env.pathSvc.AddCourseToPath(env.ctx, "sql-1")
	require.NoError(t, err)
	assert.Len(t, p.Courses, 2)
}
