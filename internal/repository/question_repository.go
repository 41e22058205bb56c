package repository

import (
	"context"
	"fmt"
	"werise_backend/internal/model"
	"werise_backend/internal/util"
)

// QuestionRepository 考试题库
type QuestionRepository struct {
	questions *collection[[]model.Question]
}

func NewQuestionRepository(store Store) *QuestionRepository {
	return &QuestionRepository{
		questions: newCollection(store, KeyQuestions, model.DefaultQuestions),
	}
}

func (r *QuestionRepository) List(ctx context.Context) ([]model.Question, error) {
	return r.questions.load(ctx)
}

func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	_, err := r.questions.update(ctx, func(qs []model.Question) ([]model.Question, error) {
		return append(qs, *q), nil
	})
	return err
}

// Update 原位替换，保持题目顺序
func (r *QuestionRepository) Update(ctx context.Context, q *model.Question) error {
	_, err := r.questions.update(ctx, func(qs []model.Question) ([]model.Question, error) {
		for i := range qs {
			if qs[i].ID == q.ID {
				qs[i] = *q
				return qs, nil
			}
		}
		return nil, fmt.Errorf("%w: %s", util.ErrQuestionNotFound, q.ID)
	})
	return err
}

func (r *QuestionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.questions.update(ctx, func(qs []model.Question) ([]model.Question, error) {
		for i := range qs {
			if qs[i].ID == id {
				return append(qs[:i], qs[i+1:]...), nil
			}
		}
		return nil, fmt.Errorf("%w: %s", util.ErrQuestionNotFound, id)
	})
	return err
}
