package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"werise_backend/internal/model"
	"werise_backend/internal/repository"
	"werise_backend/internal/util"
	"werise_backend/pkg/logger"

	"go.uber.org/zap"
)

const (
	PendingPathTitle    = "Awaiting Mentor Curation"
	RoadmapReadyMessage = "Personalized roadmap generated! Check your dashboard."
	UserAddedCategory   = "User Added"
	DefaultCustomSource = "Manual"
)

// AssessmentInput 技能评估表单
// swagger:model AssessmentInput
type AssessmentInput struct {
	Name                     string   `json:"name"`
	Background               string   `json:"background"`
	Skills                   []string `json:"skills"`
	AvailabilityHoursPerWeek int      `json:"availabilityHoursPerWeek"`
	CareerGoal               string   `json:"careerGoal"`
}

// CustomCourseInput 学员自行添加到路径中的课程
// swagger:model CustomCourseInput
type CustomCourseInput struct {
	Title         string            `json:"title"`
	Source        string            `json:"source"`
	URL           string            `json:"url"`
	Level         model.CourseLevel `json:"level"`
	DurationHours float64           `json:"durationHours"`
	Description   string            `json:"description"`
}

type RoadmapResult struct {
	Profile *model.UserProfile  `json:"profile"`
	Path    *model.LearningPath `json:"path"`
}

// LearningPathService 会话路径的生命周期；带 candidateEmail 的路径同步写入全局登记表
type LearningPathService struct {
	SessionRepo      *repository.SessionRepository
	PathRepo         *repository.LearningPathRepository
	CourseRepo       *repository.CourseRepository
	NotificationRepo *repository.NotificationRepository
	Gateway          CompletionGateway
	Now              func() time.Time
}

func NewLearningPathService(
	sessionRepo *repository.SessionRepository,
	pathRepo *repository.LearningPathRepository,
	courseRepo *repository.CourseRepository,
	notificationRepo *repository.NotificationRepository,
	gateway CompletionGateway,
) *LearningPathService {
	return &LearningPathService{
		SessionRepo:      sessionRepo,
		PathRepo:         pathRepo,
		CourseRepo:       courseRepo,
		NotificationRepo: notificationRepo,
		Gateway:          gateway,
		Now:              time.Now,
	}
}

// ActivePath 当前会话路径，没有时返回 nil
func (s *LearningPathService) ActivePath(ctx context.Context) (*model.LearningPath, error) {
	return s.SessionRepo.GetPath(ctx)
}

// CreatePendingPath 在登记表中为候选人建立待筛选的空路径
func (s *LearningPathService) CreatePendingPath(ctx context.Context, candidateEmail, title string) (*model.LearningPath, error) {
	email := model.NormalizeEmail(candidateEmail)
	if email == "" {
		return nil, fmt.Errorf("%w: candidateEmail is required", util.ErrValidation)
	}
	if strings.TrimSpace(title) == "" {
		title = PendingPathTitle
	}

	p := model.NewPendingPath(email, strings.TrimSpace(title), s.Now())
	if err := s.PathRepo.Upsert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// AddCourseToPath 按 id 从课程库复制，已存在时原样返回
func (s *LearningPathService) AddCourseToPath(ctx context.Context, courseID string) (*model.LearningPath, error) {
	course, err := s.CourseRepo.FindByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, func(p *model.LearningPath, now time.Time) error {
		return addCourse(p, *course, now)
	})
}

func (s *LearningPathService) AddCustomCourse(ctx context.Context, in CustomCourseInput) (*model.LearningPath, error) {
	course := model.Course{
		ID:            model.GenerateUUID(),
		Title:         strings.TrimSpace(in.Title),
		Source:        strings.TrimSpace(in.Source),
		URL:           strings.TrimSpace(in.URL),
		Level:         in.Level,
		Category:      UserAddedCategory,
		DurationHours: in.DurationHours,
		Description:   strings.TrimSpace(in.Description),
	}
	if course.Source == "" {
		course.Source = DefaultCustomSource
	}
	if course.Level == "" {
		course.Level = model.LevelBasic
	}
	if err := course.Validate(); err != nil {
		return nil, err
	}

	return s.mutate(ctx, func(p *model.LearningPath, now time.Time) error {
		return addCourse(p, course, now)
	})
}

func (s *LearningPathService) RemoveCourseFromPath(ctx context.Context, courseID string) (*model.LearningPath, error) {
	return s.mutate(ctx, func(p *model.LearningPath, now time.Time) error {
		if !p.RemoveCourse(courseID, now) {
			return fmt.Errorf("%w: %s", util.ErrCourseNotFound, courseID)
		}
		return nil
	})
}

func (s *LearningPathService) SetCourseStatus(ctx context.Context, courseID string, status model.CourseStatus) (*model.LearningPath, error) {
	return s.mutate(ctx, func(p *model.LearningPath, now time.Time) error {
		return p.SetCourseStatus(courseID, status, now)
	})
}

// Curate 替换登记表中候选人路径的课程并激活；路径不存在时新建
func (s *LearningPathService) Curate(ctx context.Context, candidateEmail string, courses []model.Course) (*model.LearningPath, error) {
	email := model.NormalizeEmail(candidateEmail)
	if len(courses) == 0 {
		return nil, util.ErrEmptyCuration
	}
	now := s.Now()
	return s.PathRepo.Update(ctx, email, func(p *model.LearningPath) (*model.LearningPath, error) {
		if p == nil {
			p = model.NewPendingPath(email, PendingPathTitle, now)
		}
		if err := p.Curate(courses, now); err != nil {
			return nil, err
		}
		return p, nil
	})
}

// GenerateRoadmap 网关失败时不修改任何已存储的数据
func (s *LearningPathService) GenerateRoadmap(ctx context.Context, in AssessmentInput) (*RoadmapResult, error) {
	current, err := s.SessionRepo.GetProfile(ctx)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, util.ErrNotSignedIn
	}
	if in.AvailabilityHoursPerWeek < 0 {
		return nil, fmt.Errorf("%w: availabilityHoursPerWeek must be >= 0", util.ErrValidation)
	}

	profile := *current
	if name := strings.TrimSpace(in.Name); name != "" {
		profile.Name = name
	}
	profile.Background = strings.TrimSpace(in.Background)
	profile.Skills = []string{}
	for _, skill := range in.Skills {
		profile.AddSkill(skill)
	}
	profile.AvailabilityHoursPerWeek = in.AvailabilityHoursPerWeek
	if goal := strings.TrimSpace(in.CareerGoal); goal != "" {
		profile.CareerGoal = goal
	}
	if profile.TargetRole == "" {
		profile.TargetRole = model.DefaultTargetRole
	}

	pool, err := s.CourseRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	draft, err := s.Gateway.GenerateRoadmap(ctx, &profile, pool)
	if err != nil {
		logger.Log.Warn("Roadmap not generated",
			zap.String("email", profile.Email),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %w", util.ErrRoadmapNotGenerated, err)
	}

	path := model.NewActivePath(profile.Email, draft.Title, draft.Courses, s.Now())
	if err := s.SessionRepo.SaveProfile(ctx, &profile); err != nil {
		return nil, err
	}
	if err := s.SessionRepo.SavePath(ctx, path); err != nil {
		return nil, err
	}
	if err := s.PathRepo.Upsert(ctx, path); err != nil {
		return nil, err
	}
	if err := s.NotificationRepo.Push(ctx, RoadmapReadyMessage); err != nil {
		logger.Log.Warn("Failed to push notification", zap.Error(err))
	}

	logger.Log.Info("Roadmap generated",
		zap.String("email", profile.Email),
		zap.String("path_id", path.ID),
		zap.Int("courses", len(path.Courses)))
	return &RoadmapResult{Profile: &profile, Path: path}, nil
}

// mutate 在会话锁内修改会话路径并写回；有候选人邮箱时同步登记表
func (s *LearningPathService) mutate(ctx context.Context, fn func(p *model.LearningPath, now time.Time) error) (*model.LearningPath, error) {
	return s.SessionRepo.UpdatePath(ctx, func(p *model.LearningPath) error {
		if p == nil {
			return util.ErrNoActivePath
		}
		if err := fn(p, s.Now()); err != nil {
			return err
		}
		if p.CandidateEmail == "" {
			return nil
		}
		return s.PathRepo.Upsert(ctx, p)
	})
}

// addCourse 待筛选路径的课程列表由导师决定
func addCourse(p *model.LearningPath, c model.Course, now time.Time) error {
	if p.Status == model.PathPending {
		return util.ErrPathPending
	}
	p.AddCourse(c, now)
	return nil
}
