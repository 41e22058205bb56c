package repository

import (
	"context"
	"errors"
	"sync"
	"werise_backend/internal/model"
	"werise_backend/internal/util"
	"werise_backend/pkg/logger"

	"go.uber.org/zap"
)

// SessionRepository 当前设备的会话资料（po_profile）与会话学习路径（po_path），不做默认填充。
// 写操作与 Update* 的读-改-写共用一把锁
type SessionRepository struct {
	Store Store
	mu    sync.Mutex
}

func NewSessionRepository(store Store) *SessionRepository {
	return &SessionRepository{Store: store}
}

func (r *SessionRepository) GetProfile(ctx context.Context) (*model.UserProfile, error) {
	return getSessionValue[model.UserProfile](ctx, r.Store, KeyProfile)
}

func (r *SessionRepository) SaveProfile(ctx context.Context, p *model.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return SetJSON(ctx, r.Store, KeyProfile, p)
}

// UpdateProfile 未登录时 fn 收到 nil；fn 返回错误时不写回
func (r *SessionRepository) UpdateProfile(ctx context.Context, fn func(p *model.UserProfile) error) (*model.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, err := getSessionValue[model.UserProfile](ctx, r.Store, KeyProfile)
	if err != nil {
		return nil, err
	}
	if err := fn(p); err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}
	return p, SetJSON(ctx, r.Store, KeyProfile, p)
}

func (r *SessionRepository) GetPath(ctx context.Context) (*model.LearningPath, error) {
	return getSessionValue[model.LearningPath](ctx, r.Store, KeyPath)
}

func (r *SessionRepository) SavePath(ctx context.Context, p *model.LearningPath) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return SetJSON(ctx, r.Store, KeyPath, p)
}

// UpdatePath 没有会话路径时 fn 收到 nil；fn 返回错误时不写回
func (r *SessionRepository) UpdatePath(ctx context.Context, fn func(p *model.LearningPath) error) (*model.LearningPath, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, err := getSessionValue[model.LearningPath](ctx, r.Store, KeyPath)
	if err != nil {
		return nil, err
	}
	if err := fn(p); err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}
	return p, SetJSON(ctx, r.Store, KeyPath, p)
}

func (r *SessionRepository) RemovePath(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Store.Remove(ctx, KeyPath)
}

// Clear 只清除会话键，注册用户与各类主数据不受影响
func (r *SessionRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.Store.Remove(ctx, KeyProfile); err != nil {
		return err
	}
	return r.Store.Remove(ctx, KeyPath)
}

// getSessionValue 缺失返回 nil；损坏的值视为缺失并删除
func getSessionValue[T any](ctx context.Context, s Store, key string) (*T, error) {
	v, ok, err := GetJSON[T](ctx, s, key)
	if errors.Is(err, util.ErrParse) {
		logger.Log.Warn("Stored session value is malformed, discarding",
			zap.String("key", key),
			zap.String("namespace", NamespaceFrom(ctx)),
			zap.Error(err))
		return nil, s.Remove(ctx, key)
	}
	if err != nil || !ok {
		return nil, err
	}
	return &v, nil
}
