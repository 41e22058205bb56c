package repository

import (
	"context"
	"sort"
	"werise_backend/internal/model"
)

// LearningPathRepository 全局路径登记表（we_rise_all_paths），以 candidateEmail 为键
type LearningPathRepository struct {
	paths *collection[map[string]model.LearningPath]
}

func NewLearningPathRepository(store Store) *LearningPathRepository {
	return &LearningPathRepository{
		paths: newCollection(store, KeyAllPaths, func() map[string]model.LearningPath {
			return map[string]model.LearningPath{}
		}),
	}
}

// Upsert 替换该候选人已有的路径
func (r *LearningPathRepository) Upsert(ctx context.Context, p *model.LearningPath) error {
	_, err := r.paths.update(ctx, func(m map[string]model.LearningPath) (map[string]model.LearningPath, error) {
		if m == nil {
			m = map[string]model.LearningPath{}
		}
		m[p.CandidateEmail] = *p
		return m, nil
	})
	return err
}

func (r *LearningPathRepository) FindByCandidate(ctx context.Context, email string) (*model.LearningPath, error) {
	m, err := r.paths.load(ctx)
	if err != nil {
		return nil, err
	}
	p, ok := m[email]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// Update 在锁内读取、修改并写回某个候选人的路径；不存在时 fn 收到 nil
func (r *LearningPathRepository) Update(ctx context.Context, email string, fn func(*model.LearningPath) (*model.LearningPath, error)) (*model.LearningPath, error) {
	var result *model.LearningPath
	_, err := r.paths.update(ctx, func(m map[string]model.LearningPath) (map[string]model.LearningPath, error) {
		if m == nil {
			m = map[string]model.LearningPath{}
		}
		var cur *model.LearningPath
		if p, ok := m[email]; ok {
			cur = &p
		}
		next, err := fn(cur)
		if err != nil {
			return nil, err
		}
		m[email] = *next
		result = next
		return m, nil
	})
	return result, err
}

func (r *LearningPathRepository) List(ctx context.Context) ([]model.LearningPath, error) {
	m, err := r.paths.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.LearningPath, 0, len(m))
	for _, p := range m {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CandidateEmail < out[j].CandidateEmail })
	return out, nil
}
