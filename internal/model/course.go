package model

import (
	"fmt"
	"strings"
	"werise_backend/internal/util"
)

type CourseLevel string

const (
	LevelBasic        CourseLevel = "Basic"
	LevelIntermediate CourseLevel = "Intermediate"
	LevelAdvanced     CourseLevel = "Advanced"
)

func (l CourseLevel) Valid() bool {
	switch l {
	case LevelBasic, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

type CourseStatus string

const (
	CourseNotStarted CourseStatus = "Not Started"
	CourseInProgress CourseStatus = "In Progress"
	CourseCompleted  CourseStatus = "Completed"
)

func (s CourseStatus) Valid() bool {
	switch s {
	case CourseNotStarted, CourseInProgress, CourseCompleted:
		return true
	}
	return false
}

// ProgressFor 进度只取 0 或 100
func (s CourseStatus) ProgressFor() int {
	if s == CourseCompleted {
		return 100
	}
	return 0
}

// swagger:model Course
type Course struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	Source        string       `json:"source"`
	URL           string       `json:"url,omitempty"`
	Level         CourseLevel  `json:"level"`
	Category      string       `json:"category"`
	DurationHours float64      `json:"durationHours"`
	Status        CourseStatus `json:"status"`
	Progress      int          `json:"progress"`
	Description   string       `json:"description"`
	Deadline      string       `json:"deadline,omitempty"`
}

func (c *Course) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("%w: course title is required", util.ErrValidation)
	}
	if !c.Level.Valid() {
		return fmt.Errorf("%w: unknown course level %q", util.ErrValidation, c.Level)
	}
	if c.DurationHours <= 0 {
		return fmt.Errorf("%w: durationHours must be positive", util.ErrValidation)
	}
	if c.Status != "" && !c.Status.Valid() {
		return fmt.Errorf("%w: unknown course status %q", util.ErrValidation, c.Status)
	}
	return nil
}

// PathCopy 复制到学习路径时保留源 id，状态与进度从头开始
func (c Course) PathCopy() Course {
	c.Status = CourseNotStarted
	c.Progress = 0
	return c
}

// Matches 课程库搜索：标题、分类、描述、来源的子串匹配（不区分大小写）
func (c *Course) Matches(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.Title), term) ||
		strings.Contains(strings.ToLower(c.Category), term) ||
		strings.Contains(strings.ToLower(c.Description), term) ||
		strings.Contains(strings.ToLower(c.Source), term)
}
