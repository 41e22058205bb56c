package repository

import (
	"context"
	"fmt"
	"werise_backend/internal/model"
	"werise_backend/internal/util"
)

type MentorRepository struct {
	mentors *collection[[]model.Mentor]
}

func NewMentorRepository(store Store) *MentorRepository {
	return &MentorRepository{
		mentors: newCollection(store, KeyMentors, model.DefaultMentors),
	}
}

func (r *MentorRepository) List(ctx context.Context) ([]model.Mentor, error) {
	return r.mentors.load(ctx)
}

func (r *MentorRepository) FindByID(ctx context.Context, id string) (*model.Mentor, error) {
	mentors, err := r.mentors.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range mentors {
		if mentors[i].ID == id {
			return &mentors[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", util.ErrMentorNotFound, id)
}

func (r *MentorRepository) Create(ctx context.Context, m *model.Mentor) error {
	_, err := r.mentors.update(ctx, func(ms []model.Mentor) ([]model.Mentor, error) {
		return append(ms, *m), nil
	})
	return err
}

func (r *MentorRepository) UpdateAvatar(ctx context.Context, id, avatar string) (*model.Mentor, error) {
	var updated model.Mentor
	_, err := r.mentors.update(ctx, func(ms []model.Mentor) ([]model.Mentor, error) {
		for i := range ms {
			if ms[i].ID == id {
				ms[i].Avatar = avatar
				updated = ms[i]
				return ms, nil
			}
		}
		return nil, fmt.Errorf("%w: %s", util.ErrMentorNotFound, id)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *MentorRepository) Delete(ctx context.Context, id string) error {
	_, err := r.mentors.update(ctx, func(ms []model.Mentor) ([]model.Mentor, error) {
		for i := range ms {
			if ms[i].ID == id {
				return append(ms[:i], ms[i+1:]...), nil
			}
		}
		return nil, fmt.Errorf("%w: %s", util.ErrMentorNotFound, id)
	})
	return err
}
