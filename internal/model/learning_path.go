package model

import (
	"fmt"
	"math"
	"time"
	"werise_backend/internal/util"
)

type PathStatus string

const (
	PathPending PathStatus = "pending" // 等待导师筛选，课程为空
	PathActive  PathStatus = "active"
)

// swagger:model LearningPath
type LearningPath struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Courses         []Course   `json:"courses"` // 顺序即课程周次
	OverallProgress int        `json:"overallProgress"`
	LastUpdated     string     `json:"lastUpdated"`
	Status          PathStatus `json:"status"`
	CandidateEmail  string     `json:"candidateEmail,omitempty"`
}

func NewPendingPath(candidateEmail, title string, now time.Time) *LearningPath {
	return &LearningPath{
		ID:             GenerateUUID(),
		Title:          title,
		Courses:        []Course{},
		Status:         PathPending,
		CandidateEmail: candidateEmail,
		LastUpdated:    Timestamp(now),
	}
}

// NewActivePath 由补全网关生成的路径直接进入 active
func NewActivePath(candidateEmail, title string, courses []Course, now time.Time) *LearningPath {
	p := &LearningPath{
		ID:             GenerateUUID(),
		Title:          title,
		Courses:        copyForPath(courses),
		Status:         PathActive,
		CandidateEmail: candidateEmail,
	}
	p.touch(now)
	return p
}

func (p *LearningPath) HasCourse(courseID string) bool {
	return p.indexOf(courseID) >= 0
}

func (p *LearningPath) indexOf(courseID string) int {
	for i := range p.Courses {
		if p.Courses[i].ID == courseID {
			return i
		}
	}
	return -1
}

// AddCourse 幂等：同 id 已存在时不做任何修改并返回 false
func (p *LearningPath) AddCourse(c Course, now time.Time) bool {
	if p.HasCourse(c.ID) {
		return false
	}
	p.Courses = append(p.Courses, c.PathCopy())
	p.touch(now)
	return true
}

func (p *LearningPath) RemoveCourse(courseID string, now time.Time) bool {
	i := p.indexOf(courseID)
	if i < 0 {
		return false
	}
	p.Courses = append(p.Courses[:i], p.Courses[i+1:]...)
	p.touch(now)
	return true
}

// SetCourseStatus 状态是自由选择器，允许从 Completed 回退
func (p *LearningPath) SetCourseStatus(courseID string, status CourseStatus, now time.Time) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown course status %q", util.ErrValidation, status)
	}
	i := p.indexOf(courseID)
	if i < 0 {
		return fmt.Errorf("%w: %s", util.ErrCourseNotFound, courseID)
	}
	p.Courses[i].Status = status
	p.Courses[i].Progress = status.ProgressFor()
	p.touch(now)
	return nil
}

// Curate 整体替换课程列表并激活路径
func (p *LearningPath) Curate(courses []Course, now time.Time) error {
	if len(courses) == 0 {
		return util.ErrEmptyCuration
	}
	p.Courses = copyForPath(courses)
	p.Status = PathActive
	p.touch(now)
	return nil
}

func (p *LearningPath) CompletedCount() int {
	n := 0
	for _, c := range p.Courses {
		if c.Status == CourseCompleted {
			n++
		}
	}
	return n
}

func (p *LearningPath) TotalHours() float64 {
	var h float64
	for _, c := range p.Courses {
		h += c.DurationHours
	}
	return h
}

func (p *LearningPath) RecomputeProgress() {
	p.OverallProgress = OverallProgress(p.CompletedCount(), len(p.Courses))
}

func (p *LearningPath) touch(now time.Time) {
	p.RecomputeProgress()
	p.LastUpdated = Timestamp(now)
}

// OverallProgress round(100 * completed / total)，total 为 0 时为 0
func OverallProgress(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

// copyForPath 去重（保留首次出现）并重置状态
func copyForPath(courses []Course) []Course {
	out := make([]Course, 0, len(courses))
	seen := make(map[string]bool, len(courses))
	for _, c := range courses {
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		out = append(out, c.PathCopy())
	}
	return out
}
