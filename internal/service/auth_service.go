package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"sync"
	"werise_backend/internal/config"
	"werise_backend/internal/model"
	"werise_backend/internal/repository"
	"werise_backend/internal/util"
	"werise_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// SystemAccount 内置管理员凭据，在查找注册用户之前检查，每次使用都记审计日志
type SystemAccount struct {
	Enabled  bool
	Email    string
	Password string
	Name     string
}

func NewSystemAccount(cfg config.SystemAccountConfig) SystemAccount {
	return SystemAccount{
		Enabled:  cfg.Enabled,
		Email:    model.NormalizeEmail(cfg.Email),
		Password: cfg.Password,
		Name:     cfg.Name,
	}
}

func (a SystemAccount) Matches(email, password string) bool {
	if !a.Enabled || a.Email == "" || a.Password == "" {
		return false
	}
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(a.Email)) == 1
	passwordOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.Password)) == 1
	return emailOK && passwordOK
}

func (a SystemAccount) Profile() *model.UserProfile {
	p := model.NewSessionProfile(&model.RegisteredUser{
		Name:  a.Name,
		Email: a.Email,
		Role:  model.RoleAdmin,
	})
	return p
}

type SignUpInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	MentorID string
}

type SignInResult struct {
	Token   string              `json:"token"`
	Profile *model.UserProfile  `json:"profile"`
	Path    *model.LearningPath `json:"path,omitempty"`
}

type AuthService struct {
	UserRepo    *repository.UserRepository
	SessionRepo *repository.SessionRepository
	PathRepo    *repository.LearningPathRepository
	Cfg         *config.Config

	mu     sync.RWMutex
	system SystemAccount
}

func NewAuthService(
	userRepo *repository.UserRepository,
	sessionRepo *repository.SessionRepository,
	pathRepo *repository.LearningPathRepository,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		UserRepo:    userRepo,
		SessionRepo: sessionRepo,
		PathRepo:    pathRepo,
		Cfg:         cfg,
		system:      NewSystemAccount(cfg.Auth.SystemAccount),
	}
}

// SetSystemAccount 配置热更新时替换内置账号
func (s *AuthService) SetSystemAccount(a SystemAccount) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.system = a
}

func (s *AuthService) systemAccount() SystemAccount {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.system
}

// SignUp 只追加注册记录，不改变当前会话
func (s *AuthService) SignUp(ctx context.Context, in SignUpInput) (*model.RegisteredUser, error) {
	email := model.NormalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", util.ErrValidation)
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", util.ErrValidation)
	}
	if in.Password == "" {
		return nil, fmt.Errorf("%w: password is required", util.ErrValidation)
	}
	role, err := model.ParseUserRole(in.Role)
	if err != nil {
		return nil, err
	}
	if email == s.systemAccount().Email {
		return nil, util.ErrDuplicateEmail
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.RegisteredUser{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		Role:     role,
	}
	if role == model.RoleMentor {
		user.MentorID = strings.TrimSpace(in.MentorID)
	}

	if err := s.UserRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Log.Info("User registered",
		zap.String("email", email),
		zap.String("role", string(role)))
	return user, nil
}

// SignIn 建立当前设备的会话并签发会话令牌
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	email = model.NormalizeEmail(email)

	var profile *model.UserProfile
	if sys := s.systemAccount(); sys.Matches(email, password) {
		logger.Log.Warn("System account sign-in",
			zap.String("audit", "system_account"),
			zap.String("email", email),
			zap.String("device", repository.NamespaceFrom(ctx)))
		profile = sys.Profile()
	} else {
		user, err := s.UserRepo.FindByEmail(ctx, email)
		if errors.Is(err, util.ErrEmailNotFound) {
			return nil, util.ErrInvalidCredentials
		}
		if err != nil {
			return nil, err
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
			return nil, util.ErrInvalidCredentials
		}
		profile = model.NewSessionProfile(user)
	}

	if err := s.SessionRepo.SaveProfile(ctx, profile); err != nil {
		return nil, err
	}

	path, err := s.restorePath(ctx, profile.Email)
	if err != nil {
		return nil, err
	}

	token, err := util.GenerateJWT(repository.NamespaceFrom(ctx), profile.Email, string(profile.Role), s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}

	logger.Log.Info("User signed in",
		zap.String("email", profile.Email),
		zap.String("role", string(profile.Role)))
	return &SignInResult{Token: token, Profile: profile, Path: path}, nil
}

// restorePath 丢弃属于其他候选人的会话路径，登记表中已有本人路径时以其为准
func (s *AuthService) restorePath(ctx context.Context, email string) (*model.LearningPath, error) {
	current, err := s.SessionRepo.GetPath(ctx)
	if err != nil {
		return nil, err
	}
	if current != nil && current.CandidateEmail != email {
		if err := s.SessionRepo.RemovePath(ctx); err != nil {
			return nil, err
		}
		current = nil
	}

	registered, err := s.PathRepo.FindByCandidate(ctx, email)
	if err != nil {
		return nil, err
	}
	if registered == nil {
		return current, nil
	}
	if err := s.SessionRepo.SavePath(ctx, registered); err != nil {
		return nil, err
	}
	return registered, nil
}

// RequestPasswordReset 模拟流程，只记录日志
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = model.NormalizeEmail(email)
	if _, err := s.UserRepo.FindByEmail(ctx, email); err != nil {
		return err
	}
	logger.Log.Info("Password reset requested", zap.String("email", email))
	return nil
}

// SignOut 只清除会话资料和会话路径
func (s *AuthService) SignOut(ctx context.Context) error {
	profile, err := s.SessionRepo.GetProfile(ctx)
	if err != nil {
		return err
	}
	if err := s.SessionRepo.Clear(ctx); err != nil {
		return err
	}
	if profile != nil {
		logger.Log.Info("User signed out", zap.String("email", profile.Email))
	}
	return nil
}

// Authenticate 令牌只是句柄，会话资料中的邮箱必须与令牌一致
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*util.Claims, *model.UserProfile, error) {
	claims, err := util.ParseJWT(tokenString, s.Cfg.JWT.Secret)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", util.ErrNotSignedIn, err)
	}
	if claims.Device != repository.NamespaceFrom(ctx) {
		return nil, nil, fmt.Errorf("%w: token issued for another device", util.ErrNotSignedIn)
	}

	profile, err := s.SessionRepo.GetProfile(ctx)
	if err != nil {
		return nil, nil, err
	}
	if profile == nil || profile.Email != claims.Email {
		return nil, nil, util.ErrNotSignedIn
	}
	return claims, profile, nil
}
