package service

import (
	"context"
	"strings"
	"werise_backend/internal/model"
	"werise_backend/internal/repository"
	"werise_backend/pkg/logger"

	"go.uber.org/zap"
)

// CourseInput 管理后台新增课程
// swagger:model CourseInput
type CourseInput struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	Source        string            `json:"source"`
	URL           string            `json:"url"`
	Level         model.CourseLevel `json:"level"`
	Category      string            `json:"category"`
	DurationHours float64           `json:"durationHours"`
	Description   string            `json:"description"`
	Deadline      string            `json:"deadline"`
}

type CourseService struct {
	CourseRepo *repository.CourseRepository
}

func NewCourseService(courseRepo *repository.CourseRepository) *CourseService {
	return &CourseService{CourseRepo: courseRepo}
}

// Search 空关键字返回整个课程库
func (s *CourseService) Search(ctx context.Context, term string) ([]model.Course, error) {
	courses, err := s.CourseRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Course, 0, len(courses))
	for i := range courses {
		if courses[i].Matches(term) {
			out = append(out, courses[i])
		}
	}
	return out, nil
}

func (s *CourseService) Get(ctx context.Context, id string) (*model.Course, error) {
	return s.CourseRepo.FindByID(ctx, id)
}

func (s *CourseService) Create(ctx context.Context, in CourseInput) (*model.Course, error) {
	c := &model.Course{
		ID:            strings.TrimSpace(in.ID),
		Title:         strings.TrimSpace(in.Title),
		Source:        strings.TrimSpace(in.Source),
		URL:           strings.TrimSpace(in.URL),
		Level:         in.Level,
		Category:      strings.TrimSpace(in.Category),
		DurationHours: in.DurationHours,
		Status:        model.CourseNotStarted,
		Progress:      0,
		Description:   strings.TrimSpace(in.Description),
		Deadline:      strings.TrimSpace(in.Deadline),
	}
	if c.ID == "" {
		c.ID = model.GenerateUUID()
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.CourseRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	logger.Log.Info("Course created", zap.String("course_id", c.ID), zap.String("title", c.Title))
	return c, nil
}

// Delete 只从课程库删除，已复制到学习路径中的课程不受影响
func (s *CourseService) Delete(ctx context.Context, id string) error {
	return s.CourseRepo.Delete(ctx, id)
}
