package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"werise_backend/internal/util"
	"werise_backend/pkg/logger"

	"go.uber.org/zap"
)

// 与原前端 localStorage 相同的键名，每个集合一个键
const (
	KeyProfile         = "po_profile"
	KeyPath            = "po_path"
	KeyRegisteredUsers = "po_registered_users"
	KeyCourses         = "we_rise_admin_courses"
	KeyQuestions       = "po_exam_questions"
	KeyMentors         = "we_rise_mentors"
	KeyAssignments     = "we_rise_assignments"
	KeyAllPaths        = "we_rise_all_paths"
	KeyNotifications   = "po_notifications"
)

// Keys 命名空间内的全部键
var Keys = []string{
	KeyProfile, KeyPath, KeyRegisteredUsers, KeyCourses, KeyQuestions,
	KeyMentors, KeyAssignments, KeyAllPaths, KeyNotifications,
}

// ResetNamespace 删除命名空间内的全部键，集合在下一次读取时重新写入默认值
func ResetNamespace(ctx context.Context, s Store) error {
	for _, key := range Keys {
		if err := s.Remove(ctx, key); err != nil {
			return fmt.Errorf("reset %q: %w", key, err)
		}
	}
	return nil
}

// Store 命名空间内的字符串键值存储，值为 JSON
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// ParseError 键下的值不是合法 JSON 或与目标结构不符
type ParseError struct {
	Key string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse stored value %q: %v", e.Key, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == util.ErrParse }

func GetJSON[T any](ctx context.Context, s Store, key string) (T, bool, error) {
	var v T
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return v, ok, err
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, true, &ParseError{Key: key, Err: err}
	}
	return v, true, nil
}

func SetJSON[T any](ctx context.Context, s Store, key string, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	return s.Set(ctx, key, raw)
}

// LoadOrSeed 键不存在时写入默认值并返回，解析失败时原样返回 ParseError
func LoadOrSeed[T any](ctx context.Context, s Store, key string, seed func() T) (T, error) {
	v, ok, err := GetJSON[T](ctx, s, key)
	if err != nil {
		return v, err
	}
	if ok {
		return v, nil
	}
	v = seed()
	if err := SetJSON(ctx, s, key, v); err != nil {
		return v, err
	}
	return v, nil
}

// collection 整个集合存放在一个键下，每次修改都是完整的读-改-写
type collection[T any] struct {
	store Store
	key   string
	seed  func() T
	mu    sync.Mutex
}

func newCollection[T any](store Store, key string, seed func() T) *collection[T] {
	return &collection[T]{store: store, key: key, seed: seed}
}

func (c *collection[T]) load(ctx context.Context) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadLocked(ctx)
}

// loadLocked 损坏的集合按缺失处理并重新写入默认值
func (c *collection[T]) loadLocked(ctx context.Context) (T, error) {
	v, err := LoadOrSeed(ctx, c.store, c.key, c.seed)
	if errors.Is(err, util.ErrParse) {
		logger.Log.Warn("Stored collection is malformed, reseeding",
			zap.String("key", c.key),
			zap.String("namespace", NamespaceFrom(ctx)),
			zap.Error(err))
		v = c.seed()
		return v, SetJSON(ctx, c.store, c.key, v)
	}
	return v, err
}

func (c *collection[T]) update(ctx context.Context, fn func(T) (T, error)) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur, err := c.loadLocked(ctx)
	if err != nil {
		return cur, err
	}
	next, err := fn(cur)
	if err != nil {
		return cur, err
	}
	if err := SetJSON(ctx, c.store, c.key, next); err != nil {
		return cur, err
	}
	return next, nil
}
