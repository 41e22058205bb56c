package model

import (
	"fmt"
	"strings"
	"werise_backend/internal/util"
)

// 管理后台固定给出 4 个选项，数据契约只要求至少 2 个
const (
	MinQuestionOptions     = 2
	DefaultQuestionOptions = 4
)

// swagger:model Question
type Question struct {
	ID           string   `json:"id"`
	Text         string   `json:"text"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
}

func (q *Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("%w: question text is required", util.ErrValidation)
	}
	if len(q.Options) < MinQuestionOptions {
		return fmt.Errorf("%w: at least %d options are required", util.ErrValidation, MinQuestionOptions)
	}
	for i, o := range q.Options {
		if strings.TrimSpace(o) == "" {
			return fmt.Errorf("%w: option %d is empty", util.ErrValidation, i)
		}
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return fmt.Errorf("%w: correctIndex %d out of range", util.ErrValidation, q.CorrectIndex)
	}
	return nil
}

// ExamQuestion 下发给考生的题目，不包含答案
type ExamQuestion struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

func (q *Question) ForExam() ExamQuestion {
	return ExamQuestion{ID: q.ID, Text: q.Text, Options: q.Options}
}

// swagger:model EvaluationResult
type EvaluationResult struct {
	Score          int    `json:"score"`
	TotalQuestions int    `json:"totalQuestions"`
	Date           string `json:"date"`
	Feedback       string `json:"feedback"`
}

// Score 按顺序比对作答，未作答或越界的答案记为错误
func Score(questions []Question, answers []int) int {
	score := 0
	for i, q := range questions {
		if i < len(answers) && answers[i] == q.CorrectIndex {
			score++
		}
	}
	return score
}
