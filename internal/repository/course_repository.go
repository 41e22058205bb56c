package repository

import (
	"context"
	"fmt"
	"werise_backend/internal/model"
	"werise_backend/internal/util"
)

// CourseRepository 管理员维护的主课程库
type CourseRepository struct {
	courses *collection[[]model.Course]
}

func NewCourseRepository(store Store) *CourseRepository {
	return &CourseRepository{
		courses: newCollection(store, KeyCourses, model.DefaultCourses),
	}
}

func (r *CourseRepository) List(ctx context.Context) ([]model.Course, error) {
	return r.courses.load(ctx)
}

func (r *CourseRepository) FindByID(ctx context.Context, id string) (*model.Course, error) {
	courses, err := r.courses.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range courses {
		if courses[i].ID == id {
			return &courses[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", util.ErrCourseNotFound, id)
}

// Create 课程 id 在课程库中唯一
func (r *CourseRepository) Create(ctx context.Context, c *model.Course) error {
	_, err := r.courses.update(ctx, func(courses []model.Course) ([]model.Course, error) {
		for _, existing := range courses {
			if existing.ID == c.ID {
				return nil, fmt.Errorf("%w: course id %q already exists", util.ErrValidation, c.ID)
			}
		}
		return append(courses, *c), nil
	})
	return err
}

func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	_, err := r.courses.update(ctx, func(courses []model.Course) ([]model.Course, error) {
		out := courses[:0]
		found := false
		for _, c := range courses {
			if c.ID == id {
				found = true
				continue
			}
			out = append(out, c)
		}
		if !found {
			return nil, fmt.Errorf("%w: %s", util.ErrCourseNotFound, id)
		}
		return out, nil
	})
	return err
}
