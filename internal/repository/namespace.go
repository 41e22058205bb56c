package repository

import (
	"context"
	"regexp"
)

const DefaultNamespace = "default"

var namespacePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

type namespaceKey struct{}

// ValidNamespace 设备标识只允许字母、数字、下划线和连字符
func ValidNamespace(ns string) bool {
	return namespacePattern.MatchString(ns)
}

func WithNamespace(ctx context.Context, ns string) context.Context {
	if ns == "" {
		ns = DefaultNamespace
	}
	return context.WithValue(ctx, namespaceKey{}, ns)
}

func NamespaceFrom(ctx context.Context) string {
	if ns, ok := ctx.Value(namespaceKey{}).(string); ok && ns != "" {
		return ns
	}
	return DefaultNamespace
}

// NamespacedStore 以上下文中的命名空间（设备）为键加前缀
type NamespacedStore struct {
	inner Store
}

func NewNamespacedStore(inner Store) *NamespacedStore {
	return &NamespacedStore{inner: inner}
}

func (s *NamespacedStore) key(ctx context.Context, key string) string {
	return NamespaceFrom(ctx) + ":" + key
}

func (s *NamespacedStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.inner.Get(ctx, s.key(ctx, key))
}

func (s *NamespacedStore) Set(ctx context.Context, key string, value []byte) error {
	return s.inner.Set(ctx, s.key(ctx, key), value)
}

func (s *NamespacedStore) Remove(ctx context.Context, key string) error {
	return s.inner.Remove(ctx, s.key(ctx, key))
}
