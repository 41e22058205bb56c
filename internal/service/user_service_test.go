package service

import (
	"sync"
	"testing"
	"time"
	"werise_backend/internal/model"
	"werise_backend/internal/repository"
	"werise_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.userSvc.CurrentProfile(env.ctx)
	assert.ErrorIs(t, err, util.ErrNotSignedIn)

	env.signUpAndIn(t, "Alice", "alice@x.com", "pw123", "")
	in := ProfileUpdate{
		Background:               ptr(" Business Analyst "),
		Skills:                   []string{"SQL", "SQL", "Roadmapping"},
		AvailabilityHoursPerWeek: ptr(10),
		TargetRole:               ptr(""),
	}
	p, err := env.userSvc.UpdateProfile(env.ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "Business Analyst", p.Background)
	assert.Equal(t, []string{"SQL", "Roadmapping"}, p.Skills)
	assert.Equal(t, 10, p.AvailabilityHoursPerWeek)
	assert.Equal(t, model.DefaultTargetRole, p.TargetRole)
	assert.Equal(t, "Alice", p.Name)

	again, err := env.userSvc.UpdateProfile(env.ctx, in)
	require.NoError(t, err)
	assert.Equal(t, p, again)

	_, err = env.userSvc.UpdateProfile(env.ctx, ProfileUpdate{AvailabilityHoursPerWeek: ptr(-1)})
	assert.ErrorIs(t, err, util.ErrValidation)
	_, err = env.userSvc.UpdateProfile(env.ctx, ProfileUpdate{Name: ptr(" ")})
	assert.ErrorIs(t, err, util.ErrValidation)

	stored, err := env.userSvc.CurrentProfile(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, stored.AvailabilityHoursPerWeek)
}

func TestDashboard(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.dashboard.Dashboard(env.ctx)
	assert.ErrorIs(t, err, util.ErrNotSignedIn)

	env.signUpAndIn(t, "Alice", "alice@x.com", "pw123", "")
	d, err := env.dashboard.Dashboard(env.ctx)
	require.NoError(t, err)
	assert.Nil(t, d.Path)
	assert.Zero(t, d.TotalCourses)

	env.gateway.draft = &RoadmapDraft{Title: "t", Courses: model.DefaultCourses()[:3]}
	_, err = env.pathSvc.GenerateRoadmap(env.ctx, assessment())
	require.NoError(t, err)
	_, err = env.pathSvc.SetCourseStatus(env.ctx, "sql-2", model.CourseCompleted)
	require.NoError(t, err)

	d, err = env.dashboard.Dashboard(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, d.CompletedCourses)
	assert.Equal(t, 3, d.TotalCourses)
	assert.Equal(t, 13.0, d.TotalHours)
	assert.Equal(t, 33, d.OverallProgress)
	assert.Equal(t, []string{RoadmapReadyMessage}, d.Notifications)
}

func TestAdminStats(t *testing.T) {
	env := newTestEnv(t)
	alice := env.signUpAndIn(t, "Alice", "alice@x.com", "pw123", "")
	_, _, err := env.mentorSvc.LinkCandidateToMentor(env.ctx, alice, "1")
	require.NoError(t, err)

	stats, err := env.dashboard.AdminStats(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, &AdminStats{
		Courses:         11,
		Questions:       3,
		Mentors:         3,
		Assignments:     1,
		PendingCuration: 1,
		RegisteredUsers: 1,
		Paths:           1,
	}, stats)
}

func TestUpdateProfile_ConcurrentFields(t *testing.T) {
	store := slowStore{Store: repository.NewNamespacedStore(repository.NewMemoryStore()), delay: 2 * time.Millisecond}
	env := newTestEnvWithStore(t, store)
	env.signUpAndIn(t, "Alice", "alice@x.com", "pw123", "")

	updates := []ProfileUpdate{
		{Background: ptr("Business Analyst")},
		{Skills: []string{"SQL"}},
		{AvailabilityHoursPerWeek: ptr(12)},
		{CareerGoal: ptr("Own a product")},
	}
	var wg sync.WaitGroup
	for _, in := range updates {
		wg.Add(1)
		go func(in ProfileUpdate) {
			defer wg.Done()
			_, err := env.userSvc.UpdateProfile(env.ctx, in)
			assert.NoError(t, err)
		}(in)
	}
	wg.Wait()

	p, err := env.userSvc.CurrentProfile(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, "Business Analyst", p.Background)
	assert.Equal(t, []string{"SQL"}, p.Skills)
	assert.Equal(t, 12, p.AvailabilityHoursPerWeek)
	assert.Equal(t, "Own a product", p.CareerGoal)
}
