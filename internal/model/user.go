package model

import (
	"fmt"
	"strings"
	"werise_backend/internal/util"
)

type UserRole string

const (
	RoleUser   UserRole = "user"
	RoleAdmin  UserRole = "admin"
	RoleMentor UserRole = "mentor"
)

const DefaultTargetRole = "Product Owner"

func (r UserRole) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleMentor:
		return true
	}
	return false
}

// ParseUserRole 空字符串视为普通用户
func ParseUserRole(s string) (UserRole, error) {
	if s == "" {
		return RoleUser, nil
	}
	r := UserRole(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", util.ErrInvalidRole, s)
	}
	return r, nil
}

// NormalizeEmail 邮箱是身份键，比较前统一去空格并转小写
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// swagger:model UserProfile
type UserProfile struct {
	Name                     string   `json:"name"`
	Email                    string   `json:"email"`
	Background               string   `json:"background"`
	Skills                   []string `json:"skills"`
	AvailabilityHoursPerWeek int      `json:"availabilityHoursPerWeek"`
	TargetRole               string   `json:"targetRole"`
	Role                     UserRole `json:"role"`
	MentorID                 string   `json:"mentorId,omitempty"`
	CareerGoal               string   `json:"careerGoal,omitempty"`
	ThemeColor               string   `json:"themeColor,omitempty"`
}

func (p *UserProfile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// RegisteredUser 注册时写入，之后只读
type RegisteredUser struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Password string   `json:"password"` // bcrypt 哈希
	Role     UserRole `json:"role"`
	MentorID string   `json:"mentorId,omitempty"`
}

// NewSessionProfile 由注册记录构造会话资料，未在注册时收集的字段取默认值
func NewSessionProfile(u *RegisteredUser) *UserProfile {
	return &UserProfile{
		Name:                     u.Name,
		Email:                    u.Email,
		Role:                     u.Role,
		MentorID:                 u.MentorID,
		Background:               "",
		Skills:                   []string{},
		AvailabilityHoursPerWeek: 0,
		TargetRole:               DefaultTargetRole,
	}
}

// AddSkill 技能是集合，重复或空白的技能被忽略
func (p *UserProfile) AddSkill(skill string) bool {
	skill = strings.TrimSpace(skill)
	if skill == "" {
		return false
	}
	for _, s := range p.Skills {
		if strings.EqualFold(s, skill) {
			return false
		}
	}
	p.Skills = append(p.Skills, skill)
	return true
}
