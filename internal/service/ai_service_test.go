package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
	"werise_backend/internal/config"
	"werise_backend/internal/model"
	"werise_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	mu    sync.Mutex
	reply string
	err   error
	block bool // 阻塞到 ctx 结束

	requests []completionRequest
}

func (f *fakeCompleter) Complete(ctx context.Context, req completionRequest) (string, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.reply, f.err
}

func aiConfig() config.AIConfig {
	return config.AIConfig{Provider: "openai", APIKey: "k", Model: "m", RoadmapModel: "rm", RoadmapLength: 4, MaxTokens: 256}
}

func TestDecodeRoadmap(t *testing.T) {
	pool := model.DefaultCourses()

	draft, err := decodeRoadmap("<think>pick sql first</think>```json\n"+
		`{"title": " QA to PO ", "selectedCourseIds": ["sql-2", "ghost", "api-1", "sql-2"]}`+"\n```", pool)
	require.NoError(t, err)
	assert.Equal(t, "QA to PO", draft.Title)
	require.Len(t, draft.Courses, 2)
	assert.Equal(t, "sql-2", draft.Courses[0].ID)
	assert.Equal(t, "api-1", draft.Courses[1].ID)
	assert.Equal(t, model.CourseNotStarted, draft.Courses[0].Status)
}

func TestDecodeRoadmap_SchemaMismatch(t *testing.T) {
	pool := model.DefaultCourses()
	tests := map[string]string{
		"not json":         "I would recommend SQL.",
		"unknown field":    `{"title":"t","selectedCourseIds":["sql-1"],"courses":[]}`,
		"missing title":    `{"selectedCourseIds":["sql-1"]}`,
		"blank title":      `{"title":"  ","selectedCourseIds":["sql-1"]}`,
		"missing ids":      `{"title":"t"}`,
		"only unknown ids": `{"title":"t","selectedCourseIds":["made-up-1","made-up-2"]}`,
		"wrong type":       `{"title":"t","selectedCourseIds":"sql-1"}`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := decodeRoadmap(raw, pool)
			assert.ErrorIs(t, err, util.ErrGatewaySchemaMismatch)
		})
	}
}

func TestAIService_GenerateRoadmap(t *testing.T) {
	c := &fakeCompleter{reply: `{"title":"Path","selectedCourseIds":["api-2","sql-1"]}`}
	s := newAIServiceWithCompleter(aiConfig(), c)
	profile := &model.UserProfile{Background: "QA Engineer", Skills: []string{"SQL"}, TargetRole: model.DefaultTargetRole}

	draft, err := s.GenerateRoadmap(context.Background(), profile, model.DefaultCourses())
	require.NoError(t, err)
	assert.Equal(t, "Path", draft.Title)
	assert.Len(t, draft.Courses, 2)

	require.Len(t, c.requests, 1)
	req := c.requests[0]
	assert.True(t, req.JSON)
	assert.Equal(t, "rm", req.Model)
	assert.Contains(t, req.Prompt, "ID: api-5")
	assert.Contains(t, req.Prompt, "QA Engineer")
	assert.Contains(t, req.Prompt, "Select the 4 MOST RELEVANT")
}

func TestAIService_EmptyPool(t *testing.T) {
	c := &fakeCompleter{reply: `{"title":"x","selectedCourseIds":["sql-1"]}`}
	s := newAIServiceWithCompleter(aiConfig(), c)

	_, err := s.GenerateRoadmap(context.Background(), &model.UserProfile{}, nil)
	assert.ErrorIs(t, err, util.ErrEmptyCoursePool)
	assert.Empty(t, c.requests, "the gateway is not called for an empty pool")
}

func TestAIService_Unconfigured(t *testing.T) {
	s, err := NewAIService(config.AIConfig{Provider: "openai"})
	require.NoError(t, err)

	_, err = s.GetAdvice(context.Background(), "hi", nil)
	assert.ErrorIs(t, err, util.ErrGatewayUnavailable)
	_, err = s.GenerateRoadmap(context.Background(), &model.UserProfile{}, model.DefaultCourses())
	assert.ErrorIs(t, err, util.ErrGatewayUnavailable)
}

func TestAIService_TransportFailures(t *testing.T) {
	s := newAIServiceWithCompleter(aiConfig(), &fakeCompleter{err: errors.New("connection refused")})
	_, err := s.GetFeedback(context.Background(), 2, 3, nil)
	assert.ErrorIs(t, err, util.ErrGatewayUnavailable)

	s = newAIServiceWithCompleter(aiConfig(), &fakeCompleter{reply: "   "})
	_, err = s.GetFeedback(context.Background(), 2, 3, nil)
	assert.ErrorIs(t, err, util.ErrGatewayUnavailable)
}

func TestAIService_Timeout(t *testing.T) {
	cfg := aiConfig()
	cfg.Timeout = 20 * time.Millisecond
	s := newAIServiceWithCompleter(cfg, &fakeCompleter{block: true})

	start := time.Now()
	_, err := s.GetAdvice(context.Background(), "hi", nil)
	assert.ErrorIs(t, err, util.ErrGatewayUnavailable)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestAIService_PlainTextReplies(t *testing.T) {
	c := &fakeCompleter{reply: "<p>Focus on <b>stakeholders</b> &amp; backlog.</p><script>alert(1)</script>"}
	s := newAIServiceWithCompleter(aiConfig(), c)

	text, err := s.GetAdvice(context.Background(), "what next?", &model.UserProfile{Background: "QA"})
	require.NoError(t, err)
	assert.Equal(t, "Focus on stakeholders & backlog.", text)
	assert.False(t, c.requests[0].JSON)
	assert.True(t, strings.Contains(c.requests[0].Prompt, "background in QA"))
}

func TestAIService_Reload(t *testing.T) {
	s := newAIServiceWithCompleter(aiConfig(), &fakeCompleter{reply: "ok"})
	require.NoError(t, s.Reload(config.AIConfig{Provider: "openai"}))

	_, err := s.GetAdvice(context.Background(), "hi", nil)
	assert.ErrorIs(t, err, util.ErrGatewayUnavailable)
}
