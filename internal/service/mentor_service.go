package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"time"
	"werise_backend/internal/model"
	"werise_backend/internal/repository"
	"werise_backend/internal/util"
	"werise_backend/pkg/logger"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

// MentorInput 管理后台新增导师
// swagger:model MentorInput
type MentorInput struct {
	Name      string   `json:"name"`
	Role      string   `json:"role"`
	Expertise []string `json:"expertise"`
	Avatar    string   `json:"avatar"`
}

// ChatExchange 一问一答，消息不持久化
type ChatExchange struct {
	Question model.Message `json:"question"`
	Reply    model.Message `json:"reply"`
}

type MentorService struct {
	MentorRepo       *repository.MentorRepository
	AssignmentRepo   *repository.AssignmentRepository
	PathRepo         *repository.LearningPathRepository
	SessionRepo      *repository.SessionRepository
	CourseRepo       *repository.CourseRepository
	NotificationRepo *repository.NotificationRepository
	PathService      *LearningPathService
	Storage          *StorageService
	Gateway          CompletionGateway
	Now              func() time.Time

	policy *bluemonday.Policy
}

func NewMentorService(
	mentorRepo *repository.MentorRepository,
	assignmentRepo *repository.AssignmentRepository,
	pathRepo *repository.LearningPathRepository,
	sessionRepo *repository.SessionRepository,
	courseRepo *repository.CourseRepository,
	notificationRepo *repository.NotificationRepository,
	pathService *LearningPathService,
	storage *StorageService,
	gateway CompletionGateway,
) *MentorService {
	return &MentorService{
		MentorRepo:       mentorRepo,
		AssignmentRepo:   assignmentRepo,
		PathRepo:         pathRepo,
		SessionRepo:      sessionRepo,
		CourseRepo:       courseRepo,
		NotificationRepo: notificationRepo,
		PathService:      pathService,
		Storage:          storage,
		Gateway:          gateway,
		Now:              time.Now,
		policy:           bluemonday.StrictPolicy(),
	}
}

func (s *MentorService) ListMentors(ctx context.Context) ([]model.Mentor, error) {
	return s.MentorRepo.List(ctx)
}

func (s *MentorService) CreateMentor(ctx context.Context, in MentorInput) (*model.Mentor, error) {
	m := &model.Mentor{
		ID:        model.GenerateUUID(),
		Name:      strings.TrimSpace(in.Name),
		Role:      strings.TrimSpace(in.Role),
		Expertise: in.Expertise,
		Avatar:    strings.TrimSpace(in.Avatar),
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if err := s.MentorRepo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *MentorService) DeleteMentor(ctx context.Context, id string) error {
	return s.MentorRepo.Delete(ctx, id)
}

// UploadAvatar 校验图片后上传并更新导师头像地址
func (s *MentorService) UploadAvatar(ctx context.Context, mentorID, filename string, reader io.Reader, size int64, contentType string) (*model.Mentor, error) {
	if _, err := s.MentorRepo.FindByID(ctx, mentorID); err != nil {
		return nil, err
	}
	if size <= 0 || size > util.MaxAvatarSizeBytes {
		return nil, fmt.Errorf("%w: avatar must be between 1 byte and %d bytes", util.ErrValidation, util.MaxAvatarSizeBytes)
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !slices.Contains(util.AllowedImageExtensions, ext) {
		return nil, fmt.Errorf("%w: unsupported image type %q", util.ErrValidation, ext)
	}
	if contentType != "" && !util.IsImage(contentType) {
		return nil, fmt.Errorf("%w: content type %q is not an image", util.ErrValidation, contentType)
	}
	// 以文件内容为准，不信任客户端声明的类型
	mimeType, body, err := util.SniffMimeType(reader, []string{util.MimeImage})
	if err != nil {
		return nil, err
	}

	objectName := fmt.Sprintf("avatars/%s/%s%s", mentorID, model.GenerateUUID(), ext)
	url, err := s.Storage.Upload(ctx, objectName, body, size, mimeType)
	if err != nil {
		return nil, err
	}
	return s.MentorRepo.UpdateAvatar(ctx, mentorID, url)
}

// LinkCandidateToMentor 每个候选人只保留一条关联和一条待筛选路径，重复关联以最后一次为准
func (s *MentorService) LinkCandidateToMentor(ctx context.Context, candidate *model.UserProfile, mentorID string) (*model.Assignment, *model.LearningPath, error) {
	mentor, err := s.MentorRepo.FindByID(ctx, mentorID)
	if err != nil {
		return nil, nil, err
	}

	now := s.Now()
	email := model.NormalizeEmail(candidate.Email)
	assignment := &model.Assignment{
		CandidateName:  candidate.Name,
		CandidateEmail: email,
		MentorID:       mentor.ID,
		MentorName:     mentor.Name,
		Timestamp:      model.Timestamp(now),
		Status:         model.AssignmentPendingCuration,
		Skills:         append([]string{}, candidate.Skills...),
		CareerGoal:     candidate.CareerGoal,
		TargetRole:     candidate.TargetRole,
	}
	if err := s.AssignmentRepo.Upsert(ctx, assignment); err != nil {
		return nil, nil, err
	}

	path := model.NewPendingPath(email, PendingPathTitle, now)
	if err := s.PathRepo.Upsert(ctx, path); err != nil {
		return nil, nil, err
	}

	session, err := s.SessionRepo.GetProfile(ctx)
	if err != nil {
		return nil, nil, err
	}
	if session != nil && session.Email == email {
		session.MentorID = mentor.ID
		if err := s.SessionRepo.SaveProfile(ctx, session); err != nil {
			return nil, nil, err
		}
		if err := s.SessionRepo.SavePath(ctx, path); err != nil {
			return nil, nil, err
		}
	}

	logger.Log.Info("Candidate linked to mentor",
		zap.String("email", email),
		zap.String("mentor_id", mentor.ID))
	return assignment, path, nil
}

// ListAssignments mentorID 为空时返回全部
func (s *MentorService) ListAssignments(ctx context.Context, mentorID string) ([]model.Assignment, error) {
	return s.AssignmentRepo.ListByMentor(ctx, mentorID)
}

// AssignmentsFor 导师只能看到分配给自己的候选人，管理员可按 mentorID 过滤
func (s *MentorService) AssignmentsFor(ctx context.Context, caller *model.UserProfile, mentorID string) ([]model.Assignment, error) {
	switch caller.Role {
	case model.RoleAdmin:
		return s.ListAssignments(ctx, mentorID)
	case model.RoleMentor:
		if caller.MentorID == "" {
			return []model.Assignment{}, nil
		}
		return s.ListAssignments(ctx, caller.MentorID)
	default:
		return nil, util.ErrPermissionDenied
	}
}

// CurateAndActivate 按所选顺序写入候选人路径并激活；若当前会话就是该候选人，同步会话路径
func (s *MentorService) CurateAndActivate(ctx context.Context, caller *model.UserProfile, candidateEmail string, courseIDs []string) (*model.LearningPath, error) {
	email := model.NormalizeEmail(candidateEmail)
	if len(courseIDs) == 0 {
		return nil, util.ErrEmptyCuration
	}

	assignment, err := s.AssignmentRepo.FindByCandidate(ctx, email)
	if err != nil {
		return nil, err
	}
	if caller != nil && caller.Role == model.RoleMentor {
		if assignment == nil || assignment.MentorID != caller.MentorID {
			return nil, util.ErrPermissionDenied
		}
	}

	courses := make([]model.Course, 0, len(courseIDs))
	for _, id := range courseIDs {
		c, err := s.CourseRepo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		courses = append(courses, *c)
	}

	path, err := s.PathService.Curate(ctx, email, courses)
	if err != nil {
		return nil, err
	}

	if assignment != nil {
		if err := s.AssignmentRepo.SetStatus(ctx, email, model.AssignmentActive); err != nil && !errors.Is(err, util.ErrAssignmentNotFound) {
			return nil, err
		}
	}

	session, err := s.SessionRepo.GetProfile(ctx)
	if err != nil {
		return nil, err
	}
	if session != nil && session.Email == email {
		if err := s.SessionRepo.SavePath(ctx, path); err != nil {
			return nil, err
		}
	}

	if err := s.NotificationRepo.Push(ctx, fmt.Sprintf("Roadmap curated for %s. The path is now active.", email)); err != nil {
		logger.Log.Warn("Failed to push notification", zap.Error(err))
	}

	logger.Log.Info("Path curated",
		zap.String("email", email),
		zap.Int("courses", len(path.Courses)))
	return path, nil
}

// Ask 导师问答，网关不可用时回复固定文案
func (s *MentorService) Ask(ctx context.Context, profile *model.UserProfile, mentorID, text string) (*ChatExchange, error) {
	if _, err := s.MentorRepo.FindByID(ctx, mentorID); err != nil {
		return nil, err
	}
	question := strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(text)))
	if question == "" {
		return nil, fmt.Errorf("%w: message text is required", util.ErrValidation)
	}

	now := s.Now()
	userMsg := model.Message{
		ID:        model.GenerateUUID(),
		Sender:    model.SenderUser,
		Text:      question,
		Timestamp: model.Timestamp(now),
	}

	reply, err := s.Gateway.GetAdvice(ctx, question, profile)
	if err != nil {
		logger.Log.Warn("Mentor advice unavailable, using fallback",
			zap.String("mentor_id", mentorID),
			zap.Error(err))
		reply = AdviceFallback
	}

	mentorMsg := model.Message{
		ID:        model.GenerateUUID(),
		Sender:    model.SenderMentor,
		Text:      reply,
		Timestamp: model.Timestamp(s.Now()),
	}
	return &ChatExchange{Question: userMsg, Reply: mentorMsg}, nil
}
