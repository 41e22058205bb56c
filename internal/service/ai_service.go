package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"strings"
	"sync"
	"time"
	"werise_backend/internal/config"
	"werise_backend/internal/model"
	"werise_backend/internal/util"
	"werise_backend/pkg/logger"
	"werise_backend/pkg/monitoring"
	"werise_backend/pkg/tracing"

	"github.com/microcosm-cc/bluemonday"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// 网关失败时调用方使用的固定文案
const (
	FeedbackFallback = "Great effort! Review your answers and keep rising."
	AdviceFallback   = "Your mentor is unavailable right now. Try again shortly, and keep rising."
)

const (
	opRoadmap  = "roadmap"
	opAdvice   = "advice"
	opFeedback = "feedback"
)

// CompletionGateway 外部补全服务契约，失败一律返回错误，不编造课程
type CompletionGateway interface {
	GenerateRoadmap(ctx context.Context, profile *model.UserProfile, pool []model.Course) (*RoadmapDraft, error)
	GetAdvice(ctx context.Context, question string, profile *model.UserProfile) (string, error)
	GetFeedback(ctx context.Context, score, total int, profile *model.UserProfile) (string, error)
}

// RoadmapDraft 课程均取自课程池，顺序与模型给出的顺序一致
type RoadmapDraft struct {
	Title   string         `json:"title"`
	Courses []model.Course `json:"courses"`
}

// roadmapReply 模型必须返回的结构，多余字段视为不符
type roadmapReply struct {
	Title             *string   `json:"title"`
	SelectedCourseIDs *[]string `json:"selectedCourseIds"`
}

type AIService struct {
	mu        sync.RWMutex
	cfg       config.AIConfig
	completer completer
	policy    *bluemonday.Policy
}

func NewAIService(cfg config.AIConfig) (*AIService, error) {
	c, err := newCompleter(cfg)
	if err != nil {
		return nil, err
	}
	if c == nil {
		logger.Log.Warn("AI gateway not configured, completions will fail over to fallbacks")
	}
	return newAIServiceWithCompleter(cfg, c), nil
}

func newAIServiceWithCompleter(cfg config.AIConfig, c completer) *AIService {
	return &AIService{
		cfg:       cfg,
		completer: c,
		policy:    bluemonday.StrictPolicy(),
	}
}

// Reload 配置热更新：替换超时、模型和提供方
func (s *AIService) Reload(cfg config.AIConfig) error {
	c, err := newCompleter(cfg)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
	s.completer = c
	return nil
}

func (s *AIService) snapshot() (config.AIConfig, completer) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg, s.completer
}

func (s *AIService) GenerateRoadmap(ctx context.Context, profile *model.UserProfile, pool []model.Course) (*RoadmapDraft, error) {
	if len(pool) == 0 {
		return nil, util.ErrEmptyCoursePool
	}

	cfg, _ := s.snapshot()
	modelName := cfg.RoadmapModel
	if modelName == "" {
		modelName = cfg.Model
	}

	raw, err := s.complete(ctx, opRoadmap, completionRequest{
		Model:     modelName,
		System:    `You are a Career Counselor for "We Rise". Reply with JSON only.`,
		Prompt:    roadmapPrompt(profile, pool, cfg.RoadmapLength),
		MaxTokens: cfg.MaxTokens,
		JSON:      true,
	})
	if err != nil {
		return nil, err
	}

	draft, err := decodeRoadmap(raw, pool)
	if err != nil {
		monitoring.GatewayCalls.WithLabelValues(opRoadmap, "schema_mismatch").Inc()
		logger.Log.Warn("Roadmap reply rejected",
			zap.String("email", profile.Email),
			zap.Error(err))
		return nil, err
	}
	return draft, nil
}

func (s *AIService) GetAdvice(ctx context.Context, question string, profile *model.UserProfile) (string, error) {
	cfg, _ := s.snapshot()
	raw, err := s.complete(ctx, opAdvice, completionRequest{
		Model: cfg.Model,
		Prompt: fmt.Sprintf(`You are a Senior Product Owner Mentor at "We Rise". A student with a background in %s asks: "%s". Provide helpful, professional advice.`,
			backgroundOf(profile), question),
		MaxTokens: cfg.MaxTokens,
	})
	if err != nil {
		return "", err
	}
	return s.plainText(raw)
}

func (s *AIService) GetFeedback(ctx context.Context, score, total int, profile *model.UserProfile) (string, error) {
	cfg, _ := s.snapshot()
	raw, err := s.complete(ctx, opFeedback, completionRequest{
		Model: cfg.Model,
		Prompt: fmt.Sprintf(`Score: %d/%d. Background: %s. Give expert PO transition feedback on behalf of "We Rise".`,
			score, total, backgroundOf(profile)),
		MaxTokens: cfg.MaxTokens,
	})
	if err != nil {
		return "", err
	}
	return s.plainText(raw)
}

// complete 统一处理超时、链路追踪和指标；所有传输层错误归为 ErrGatewayUnavailable
func (s *AIService) complete(ctx context.Context, op string, req completionRequest) (string, error) {
	cfg, c := s.snapshot()
	if c == nil {
		monitoring.GatewayCalls.WithLabelValues(op, "unconfigured").Inc()
		return "", fmt.Errorf("%w: gateway not configured", util.ErrGatewayUnavailable)
	}

	ctx, span := tracing.Tracer.Start(ctx, "gateway."+op, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("ai.provider", cfg.Provider),
		attribute.String("ai.model", req.Model),
	)

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := c.Complete(ctx, req)
	elapsed := time.Since(start)

	if err == nil && strings.TrimSpace(text) == "" {
		err = errors.New("empty reply")
	}
	if err != nil {
		outcome := "unavailable"
		if errors.Is(err, context.DeadlineExceeded) {
			outcome = "timeout"
		}
		monitoring.ObserveGateway(op, outcome, elapsed)
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		logger.Log.Error("Completion gateway call failed",
			zap.String("operation", op),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return "", fmt.Errorf("%w: %v", util.ErrGatewayUnavailable, err)
	}

	monitoring.ObserveGateway(op, "ok", elapsed)
	logger.Log.Debug("Completion gateway call completed",
		zap.String("operation", op),
		zap.Int("reply_len", len(text)),
		zap.Duration("elapsed", elapsed))
	return text, nil
}

// plainText 去掉模型回复中的 HTML，保留纯文本
func (s *AIService) plainText(raw string) (string, error) {
	text := strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(raw)))
	if text == "" {
		return "", fmt.Errorf("%w: reply is empty after sanitising", util.ErrGatewayUnavailable)
	}
	return text, nil
}

// decodeRoadmap 校验回复结构，把 id 映射回课程池；未知 id 丢弃，结果为空视为失败
func decodeRoadmap(raw string, pool []model.Course) (*RoadmapDraft, error) {
	obj, err := util.ExtractJSONObject(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrGatewaySchemaMismatch, err)
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(obj)))
	dec.DisallowUnknownFields()
	var reply roadmapReply
	if err := dec.Decode(&reply); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrGatewaySchemaMismatch, err)
	}
	if reply.Title == nil || strings.TrimSpace(*reply.Title) == "" {
		return nil, fmt.Errorf("%w: missing title", util.ErrGatewaySchemaMismatch)
	}
	if reply.SelectedCourseIDs == nil {
		return nil, fmt.Errorf("%w: missing selectedCourseIds", util.ErrGatewaySchemaMismatch)
	}

	byID := make(map[string]model.Course, len(pool))
	for _, c := range pool {
		byID[c.ID] = c
	}

	seen := make(map[string]bool)
	courses := make([]model.Course, 0, len(*reply.SelectedCourseIDs))
	for _, id := range *reply.SelectedCourseIDs {
		c, ok := byID[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		courses = append(courses, c.PathCopy())
	}
	if len(courses) == 0 {
		return nil, fmt.Errorf("%w: no selected course id matches the pool", util.ErrGatewaySchemaMismatch)
	}

	return &RoadmapDraft{Title: strings.TrimSpace(*reply.Title), Courses: courses}, nil
}

func roadmapPrompt(profile *model.UserProfile, pool []model.Course, length int) string {
	if length <= 0 {
		length = 6
	}
	careerGoal := profile.CareerGoal
	if careerGoal == "" {
		careerGoal = "Not specified"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "A student with a background in %s wants to transition to a %s role.\n", backgroundOf(profile), targetRoleOf(profile))
	fmt.Fprintf(&b, "Their primary career goal is: %s.\n", careerGoal)
	fmt.Fprintf(&b, "They are currently skilled in: %s.\n", strings.Join(profile.Skills, ", "))
	fmt.Fprintf(&b, "They commit %d hours per week.\n\n", profile.AvailabilityHoursPerWeek)
	fmt.Fprintf(&b, "ACT AS A FILTER: below is a list of hand-picked courses from our administrators. "+
		"Select the %d MOST RELEVANT courses from this list to create their personalized path. "+
		"DO NOT invent courses. ONLY use the provided IDs.\n\n", length)
	b.WriteString("AVAILABLE COURSES:\n")
	for _, c := range pool {
		fmt.Fprintf(&b, "ID: %s, Title: %s, Level: %s, Category: %s, Description: %s\n",
			c.ID, c.Title, c.Level, c.Category, c.Description)
	}
	b.WriteString("\nRespond with a JSON object of the form " +
		`{"title": "<catchy path title>", "selectedCourseIds": ["<id>", ...]}` +
		" and nothing else.")
	return b.String()
}

func backgroundOf(p *model.UserProfile) string {
	if p == nil || strings.TrimSpace(p.Background) == "" {
		return "an unspecified field"
	}
	return p.Background
}

func targetRoleOf(p *model.UserProfile) string {
	if p == nil || p.TargetRole == "" {
		return model.DefaultTargetRole
	}
	return p.TargetRole
}
