package model

import (
	"fmt"
	"strings"
	"werise_backend/internal/util"
)

// swagger:model Mentor
type Mentor struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Role      string   `json:"role"`
	Expertise []string `json:"expertise"`
	Avatar    string   `json:"avatar"`
}

func (m *Mentor) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("%w: mentor name is required", util.ErrValidation)
	}
	if strings.TrimSpace(m.Role) == "" {
		return fmt.Errorf("%w: mentor role is required", util.ErrValidation)
	}
	m.Expertise = dedupeStrings(m.Expertise)
	return nil
}

type AssignmentStatus string

const (
	AssignmentPendingCuration AssignmentStatus = "pending_curation"
	AssignmentActive          AssignmentStatus = "active"
)

// swagger:model Assignment
type Assignment struct {
	CandidateName  string           `json:"candidateName"`
	CandidateEmail string           `json:"candidateEmail"`
	MentorID       string           `json:"mentorId"`
	MentorName     string           `json:"mentorName"`
	Timestamp      string           `json:"timestamp"`
	Status         AssignmentStatus `json:"status"`
	Skills         []string         `json:"skills"`
	CareerGoal     string           `json:"careerGoal"`
	TargetRole     string           `json:"targetRole"`
}

type MessageSender string

const (
	SenderUser   MessageSender = "user"
	SenderMentor MessageSender = "mentor"
)

// Message 聊天消息不持久化
type Message struct {
	ID        string        `json:"id"`
	Sender    MessageSender `json:"sender"`
	Text      string        `json:"text"`
	Timestamp string        `json:"timestamp"`
}
