package service

import (
	"context"
	"fmt"
	"strings"
	"werise_backend/internal/model"
	"werise_backend/internal/repository"
	"werise_backend/internal/util"
	"werise_backend/pkg/logger"

	"go.uber.org/zap"
)

// ProfileUpdate 可编辑字段；邮箱和角色不能通过资料更新修改
// swagger:model ProfileUpdate
type ProfileUpdate struct {
	Name                     *string  `json:"name"`
	Background               *string  `json:"background"`
	Skills                   []string `json:"skills"`
	AvailabilityHoursPerWeek *int     `json:"availabilityHoursPerWeek"`
	TargetRole               *string  `json:"targetRole"`
	CareerGoal               *string  `json:"careerGoal"`
	ThemeColor               *string  `json:"themeColor"`
}

type UserService struct {
	SessionRepo *repository.SessionRepository
	Store       repository.Store
}

func NewUserService(sessionRepo *repository.SessionRepository, store repository.Store) *UserService {
	return &UserService{SessionRepo: sessionRepo, Store: store}
}

// ResetDevice 清空当前设备的全部数据，包括会话本身
func (s *UserService) ResetDevice(ctx context.Context) error {
	if err := repository.ResetNamespace(ctx, s.Store); err != nil {
		return err
	}
	logger.Log.Info("Device data reset", zap.String("namespace", repository.NamespaceFrom(ctx)))
	return nil
}

// CurrentProfile 未登录时返回 ErrNotSignedIn
func (s *UserService) CurrentProfile(ctx context.Context) (*model.UserProfile, error) {
	p, err := s.SessionRepo.GetProfile(ctx)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, util.ErrNotSignedIn
	}
	return p, nil
}

// UpdateProfile 幂等：相同输入重复提交得到相同的会话资料
func (s *UserService) UpdateProfile(ctx context.Context, in ProfileUpdate) (*model.UserProfile, error) {
	return s.SessionRepo.UpdateProfile(ctx, func(p *model.UserProfile) error {
		if p == nil {
			return util.ErrNotSignedIn
		}
		return applyProfileUpdate(p, in)
	})
}

func applyProfileUpdate(p *model.UserProfile, in ProfileUpdate) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return fmt.Errorf("%w: name cannot be empty", util.ErrValidation)
		}
		p.Name = name
	}
	if in.Background != nil {
		p.Background = strings.TrimSpace(*in.Background)
	}
	if in.Skills != nil {
		p.Skills = []string{}
		for _, skill := range in.Skills {
			p.AddSkill(skill)
		}
	}
	if in.AvailabilityHoursPerWeek != nil {
		if *in.AvailabilityHoursPerWeek < 0 {
			return fmt.Errorf("%w: availabilityHoursPerWeek must be >= 0", util.ErrValidation)
		}
		p.AvailabilityHoursPerWeek = *in.AvailabilityHoursPerWeek
	}
	if in.TargetRole != nil {
		role := strings.TrimSpace(*in.TargetRole)
		if role == "" {
			role = model.DefaultTargetRole
		}
		p.TargetRole = role
	}
	if in.CareerGoal != nil {
		p.CareerGoal = strings.TrimSpace(*in.CareerGoal)
	}
	if in.ThemeColor != nil {
		p.ThemeColor = strings.TrimSpace(*in.ThemeColor)
	}
	return nil
}
