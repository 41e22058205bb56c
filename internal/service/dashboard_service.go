package service

import (
	"context"
	"werise_backend/internal/model"
	"werise_backend/internal/repository"
	"werise_backend/internal/util"
)

// swagger:model Dashboard
type Dashboard struct {
	Profile          *model.UserProfile  `json:"profile"`
	Path             *model.LearningPath `json:"path,omitempty"`
	CompletedCourses int                 `json:"completedCourses"`
	TotalCourses     int                 `json:"totalCourses"`
	TotalHours       float64             `json:"totalHours"`
	OverallProgress  int                 `json:"overallProgress"`
	Notifications    []string            `json:"notifications"`
}

// swagger:model AdminStats
type AdminStats struct {
	Courses         int `json:"courses"`
	Questions       int `json:"questions"`
	Mentors         int `json:"mentors"`
	Assignments     int `json:"assignments"`
	PendingCuration int `json:"pendingCuration"`
	RegisteredUsers int `json:"registeredUsers"`
	Paths           int `json:"paths"`
}

type DashboardService struct {
	SessionRepo      *repository.SessionRepository
	NotificationRepo *repository.NotificationRepository
	UserRepo         *repository.UserRepository
	CourseRepo       *repository.CourseRepository
	QuestionRepo     *repository.QuestionRepository
	MentorRepo       *repository.MentorRepository
	AssignmentRepo   *repository.AssignmentRepository
	PathRepo         *repository.LearningPathRepository
}

func NewDashboardService(
	sessionRepo *repository.SessionRepository,
	notificationRepo *repository.NotificationRepository,
	userRepo *repository.UserRepository,
	courseRepo *repository.CourseRepository,
	questionRepo *repository.QuestionRepository,
	mentorRepo *repository.MentorRepository,
	assignmentRepo *repository.AssignmentRepository,
	pathRepo *repository.LearningPathRepository,
) *DashboardService {
	return &DashboardService{
		SessionRepo:      sessionRepo,
		NotificationRepo: notificationRepo,
		UserRepo:         userRepo,
		CourseRepo:       courseRepo,
		QuestionRepo:     questionRepo,
		MentorRepo:       mentorRepo,
		AssignmentRepo:   assignmentRepo,
		PathRepo:         pathRepo,
	}
}

func (s *DashboardService) Dashboard(ctx context.Context) (*Dashboard, error) {
	profile, err := s.SessionRepo.GetProfile(ctx)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, util.ErrNotSignedIn
	}
	path, err := s.SessionRepo.GetPath(ctx)
	if err != nil {
		return nil, err
	}
	notifications, err := s.Notifications(ctx)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		Profile:       profile,
		Path:          path,
		Notifications: notifications,
	}
	if path != nil {
		d.CompletedCourses = path.CompletedCount()
		d.TotalCourses = len(path.Courses)
		d.TotalHours = path.TotalHours()
		d.OverallProgress = model.OverallProgress(d.CompletedCourses, d.TotalCourses)
	}
	return d, nil
}

func (s *DashboardService) Notifications(ctx context.Context) ([]string, error) {
	n, err := s.NotificationRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return []string(n), nil
}

func (s *DashboardService) AdminStats(ctx context.Context) (*AdminStats, error) {
	var stats AdminStats

	courses, err := s.CourseRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	stats.Courses = len(courses)

	questions, err := s.QuestionRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	stats.Questions = len(questions)

	mentors, err := s.MentorRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	stats.Mentors = len(mentors)

	assignments, err := s.AssignmentRepo.ListByMentor(ctx, "")
	if err != nil {
		return nil, err
	}
	stats.Assignments = len(assignments)
	for _, a := range assignments {
		if a.Status == model.AssignmentPendingCuration {
			stats.PendingCuration++
		}
	}

	if stats.RegisteredUsers, err = s.UserRepo.Count(ctx); err != nil {
		return nil, err
	}

	paths, err := s.PathRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	stats.Paths = len(paths)
	return &stats, nil
}
