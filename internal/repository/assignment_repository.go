package repository

import (
	"context"
	"fmt"
	"sort"
	"werise_backend/internal/model"
	"werise_backend/internal/util"
)

// AssignmentRepository 候选人与导师的关联表，以 candidateEmail 为键，每个候选人最多一条
type AssignmentRepository struct {
	assignments *collection[map[string]model.Assignment]
}

func NewAssignmentRepository(store Store) *AssignmentRepository {
	return &AssignmentRepository{
		assignments: newCollection(store, KeyAssignments, func() map[string]model.Assignment {
			return map[string]model.Assignment{}
		}),
	}
}

// Upsert 同一候选人的新关联覆盖旧关联
func (r *AssignmentRepository) Upsert(ctx context.Context, a *model.Assignment) error {
	_, err := r.assignments.update(ctx, func(m map[string]model.Assignment) (map[string]model.Assignment, error) {
		if m == nil {
			m = map[string]model.Assignment{}
		}
		m[a.CandidateEmail] = *a
		return m, nil
	})
	return err
}

func (r *AssignmentRepository) FindByCandidate(ctx context.Context, email string) (*model.Assignment, error) {
	m, err := r.assignments.load(ctx)
	if err != nil {
		return nil, err
	}
	a, ok := m[email]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *AssignmentRepository) SetStatus(ctx context.Context, email string, status model.AssignmentStatus) error {
	_, err := r.assignments.update(ctx, func(m map[string]model.Assignment) (map[string]model.Assignment, error) {
		a, ok := m[email]
		if !ok {
			return nil, fmt.Errorf("%w: no assignment for %s", util.ErrAssignmentNotFound, email)
		}
		a.Status = status
		m[email] = a
		return m, nil
	})
	return err
}

// ListByMentor mentorID 为空时返回全部，按关联时间排序
func (r *AssignmentRepository) ListByMentor(ctx context.Context, mentorID string) ([]model.Assignment, error) {
	m, err := r.assignments.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Assignment, 0, len(m))
	for _, a := range m {
		if mentorID == "" || a.MentorID == mentorID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Timestamp == out[j].Timestamp {
			return out[i].CandidateEmail < out[j].CandidateEmail
		}
		return out[i].Timestamp < out[j].Timestamp
	})
	return out, nil
}

func (r *AssignmentRepository) Count(ctx context.Context) (int, error) {
	m, err := r.assignments.load(ctx)
	return len(m), err
}
