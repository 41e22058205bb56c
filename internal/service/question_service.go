package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"werise_backend/internal/model"
	"werise_backend/internal/repository"
	"werise_backend/internal/util"
	"werise_backend/pkg/logger"

	"go.uber.org/zap"
)

// QuestionInput 题库新增/编辑
// swagger:model QuestionInput
type QuestionInput struct {
	Text         string   `json:"text"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
}

type QuestionService struct {
	QuestionRepo *repository.QuestionRepository
	Gateway      CompletionGateway
	Now          func() time.Time
}

func NewQuestionService(questionRepo *repository.QuestionRepository, gateway CompletionGateway) *QuestionService {
	return &QuestionService{
		QuestionRepo: questionRepo,
		Gateway:      gateway,
		Now:          time.Now,
	}
}

func (s *QuestionService) List(ctx context.Context) ([]model.Question, error) {
	return s.QuestionRepo.List(ctx)
}

func (s *QuestionService) Create(ctx context.Context, in QuestionInput) (*model.Question, error) {
	q := newQuestion(model.GenerateUUID(), in)
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if err := s.QuestionRepo.Create(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuestionService) Update(ctx context.Context, id string, in QuestionInput) (*model.Question, error) {
	q := newQuestion(id, in)
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if err := s.QuestionRepo.Update(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuestionService) Delete(ctx context.Context, id string) error {
	return s.QuestionRepo.Delete(ctx, id)
}

// Exam 下发题目时去掉正确答案
func (s *QuestionService) Exam(ctx context.Context) ([]model.ExamQuestion, error) {
	qs, err := s.QuestionRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.ExamQuestion, 0, len(qs))
	for i := range qs {
		out = append(out, qs[i].ForExam())
	}
	return out, nil
}

// Submit 按题目顺序评分；反馈来自补全网关，失败时使用固定文案
func (s *QuestionService) Submit(ctx context.Context, profile *model.UserProfile, answers []int) (*model.EvaluationResult, error) {
	qs, err := s.QuestionRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(qs) == 0 {
		return nil, util.ErrNoQuestions
	}
	if len(answers) > len(qs) {
		return nil, fmt.Errorf("%w: %d answers for %d questions", util.ErrValidation, len(answers), len(qs))
	}

	score := model.Score(qs, answers)
	feedback, err := s.Gateway.GetFeedback(ctx, score, len(qs), profile)
	if err != nil {
		logger.Log.Warn("Exam feedback unavailable, using fallback", zap.Error(err))
		feedback = FeedbackFallback
	}

	return &model.EvaluationResult{
		Score:          score,
		TotalQuestions: len(qs),
		Date:           model.Timestamp(s.Now()),
		Feedback:       feedback,
	}, nil
}

func newQuestion(id string, in QuestionInput) *model.Question {
	options := make([]string, 0, len(in.Options))
	for _, o := range in.Options {
		options = append(options, strings.TrimSpace(o))
	}
	return &model.Question{
		ID:           id,
		Text:         strings.TrimSpace(in.Text),
		Options:      options,
		CorrectIndex: in.CorrectIndex,
	}
}
