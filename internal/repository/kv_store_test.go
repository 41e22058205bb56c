package repository

import (
	"context"
	"errors"
	"testing"
	"werise_backend/internal/model"
	"werise_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_GetSetRemove(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "k", []byte(`{"a":1}`)))
	v, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"a":1}`, string(v))

	require.NoError(t, s.Remove(ctx, "k"))
	_, ok, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	// 删除不存在的键不是错误
	assert.NoError(t, s.Remove(ctx, "missing"))
}

func TestGetJSON_MalformedValueIsParseError(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, KeyCourses, []byte("{not json")))

	_, ok, err := GetJSON[[]model.Course](ctx, s, KeyCourses)
	assert.True(t, ok)
	require.Error(t, err)
	assert.True(t, errors.Is(err, util.ErrParse))

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, KeyCourses, pe.Key)
}

func TestLoadOrSeed_WritesDefaultWhenAbsent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	v, err := LoadOrSeed(ctx, s, KeyMentors, model.DefaultMentors)
	require.NoError(t, err)
	assert.Len(t, v, len(model.DefaultMentors()))

	_, ok, err := s.Get(ctx, KeyMentors)
	require.NoError(t, err)
	assert.True(t, ok, "seed should be persisted")
}

func TestCollection_ReseedsMalformedValue(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, KeyCourses, []byte(`"oops"`)))

	repo := NewCourseRepository(s)
	courses, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultCourses(), courses)

	raw, _, err := s.Get(ctx, KeyCourses)
	require.NoError(t, err)
	assert.NotEqual(t, `"oops"`, string(raw))
}

func TestNamespacedStore_IsolatesDevices(t *testing.T) {
	inner := NewMemoryStore()
	s := NewNamespacedStore(inner)

	phone := WithNamespace(context.Background(), "phone")
	laptop := WithNamespace(context.Background(), "laptop")

	require.NoError(t, s.Set(phone, KeyProfile, []byte(`{"email":"a@x.com"}`)))

	_, ok, err := s.Get(laptop, KeyProfile)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = inner.Get(context.Background(), "phone:"+KeyProfile)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNamespace_Defaults(t *testing.T) {
	assert.Equal(t, DefaultNamespace, NamespaceFrom(context.Background()))
	assert.Equal(t, DefaultNamespace, NamespaceFrom(WithNamespace(context.Background(), "")))

	assert.True(t, ValidNamespace("device-01_A"))
	assert.False(t, ValidNamespace(""))
	assert.False(t, ValidNamespace("bad:ns"))
	assert.False(t, ValidNamespace("has space"))
}

func TestResetNamespace_ReseedsDefaults(t *testing.T) {
	s := NewNamespacedStore(NewMemoryStore())
	phone := WithNamespace(context.Background(), "phone")
	laptop := WithNamespace(context.Background(), "laptop")

	courses := NewCourseRepository(s)
	require.NoError(t, courses.Delete(phone, "sql-1"))
	require.NoError(t, s.Set(phone, KeyProfile, []byte(`{"email":"a@x.com"}`)))
	require.NoError(t, s.Set(laptop, KeyProfile, []byte(`{"email":"b@x.com"}`)))

	require.NoError(t, ResetNamespace(phone, s))

	for _, key := range Keys {
		_, ok, err := s.Get(phone, key)
		require.NoError(t, err)
		assert.False(t, ok, key)
	}
	list, err := courses.List(phone)
	require.NoError(t, err)
	assert.Len(t, list, len(model.DefaultCourses()))

	_, ok, err := s.Get(laptop, KeyProfile)
	require.NoError(t, err)
	assert.True(t, ok)
}
