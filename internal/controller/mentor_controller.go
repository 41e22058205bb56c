package controller

import (
	"net/http"
	"net/url"
	"werise_backend/internal/middleware"
	"werise_backend/internal/service"
	"werise_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type MentorController struct {
	MentorService *service.MentorService
}

func NewMentorController(mentorService *service.MentorService) *MentorController {
	return &MentorController{MentorService: mentorService}
}

// ChatRequest defines model for a mentor chat message
// swagger:model ChatRequest
type ChatRequest struct {
	Text string `json:"text" binding:"required"`
}

// CurateRequest 所选课程 id，顺序即路径顺序
// swagger:model CurateRequest
type CurateRequest struct {
	CourseIDs []string `json:"courseIds" binding:"required"`
}

// ListMentors godoc
// @Summary 导师列表
// @Tags 导师
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Mentor} "成功"
// @Router /api/mentors [get]
func (c *MentorController) ListMentors(ctx *gin.Context) {
	mentors, err := c.MentorService.ListMentors(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, mentors)
}

// LinkMentor godoc
// @Summary 关联导师
// @Description 当前用户关联到导师，生成待筛选路径；重复关联以最后一次为准
// @Tags 导师
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "导师ID"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 404 {object} util.Response "导师不存在"
// @Router /api/mentors/{id}/link [post]
func (c *MentorController) LinkMentor(ctx *gin.Context) {
	profile := middleware.GetProfile(ctx)
	assignment, path, err := c.MentorService.LinkCandidateToMentor(ctx.Request.Context(), profile, ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"assignment": assignment, "path": path})
}

// Chat godoc
// @Summary 向导师提问
// @Description 回复不可用时返回固定文案，消息不保存
// @Tags 导师
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "导师ID"
// @Param   body body ChatRequest true "问题"
// @Success 200 {object} util.Response{data=service.ChatExchange} "成功"
// @Router /api/mentors/{id}/chat [post]
func (c *MentorController) Chat(ctx *gin.Context) {
	var req ChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	exchange, err := c.MentorService.Ask(ctx.Request.Context(), middleware.GetProfile(ctx), ctx.Param("id"), req.Text)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, exchange)
}

// ListAssignments godoc
// @Summary 分配给导师的候选人
// @Description 导师只能看到自己的候选人，管理员可按 mentorId 过滤
// @Tags 导师工作台
// @Produce  json
// @Security ApiKeyAuth
// @Param   mentorId query string false "导师ID（仅管理员）"
// @Success 200 {object} util.Response{data=[]model.Assignment} "成功"
// @Router /api/mentor/assignments [get]
func (c *MentorController) ListAssignments(ctx *gin.Context) {
	assignments, err := c.MentorService.AssignmentsFor(ctx.Request.Context(), middleware.GetProfile(ctx), ctx.Query("mentorId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, assignments)
}

// CurateAssignment godoc
// @Summary 筛选课程并激活候选人路径
// @Tags 导师工作台
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   email path string true "候选人邮箱"
// @Param   body body CurateRequest true "所选课程"
// @Success 200 {object} util.Response{data=model.LearningPath} "成功"
// @Failure 400 {object} util.Response "未选择课程"
// @Failure 403 {object} util.Response "不是该候选人的导师"
// @Router /api/mentor/assignments/{email}/curate [post]
func (c *MentorController) CurateAssignment(ctx *gin.Context) {
	var req CurateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	email, err := url.PathUnescape(ctx.Param("email"))
	if err != nil {
		util.BadRequest(ctx, "invalid candidate email")
		return
	}

	path, err := c.MentorService.CurateAndActivate(ctx.Request.Context(), middleware.GetProfile(ctx), email, req.CourseIDs)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, path)
}

// CreateMentor godoc
// @Summary 新增导师
// @Tags 管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.MentorInput true "导师信息"
// @Success 201 {object} util.Response{data=model.Mentor} "创建成功"
// @Router /api/admin/mentors [post]
func (c *MentorController) CreateMentor(ctx *gin.Context) {
	var req service.MentorInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	mentor, err := c.MentorService.CreateMentor(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, mentor)
}

// DeleteMentor godoc
// @Summary 删除导师
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "导师ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/admin/mentors/{id} [delete]
func (c *MentorController) DeleteMentor(ctx *gin.Context) {
	if err := c.MentorService.DeleteMentor(ctx.Request.Context(), ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// UploadAvatar godoc
// @Summary 上传导师头像
// @Tags 管理
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "导师ID"
// @Param   file formData file true "头像图片"
// @Success 200 {object} util.Response{data=model.Mentor} "成功"
// @Failure 400 {object} util.Response "文件不合法"
// @Router /api/admin/mentors/{id}/avatar [post]
func (c *MentorController) UploadAvatar(ctx *gin.Context) {
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, util.MaxAvatarSizeBytes+1<<20)

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	mentor, err := c.MentorService.UploadAvatar(ctx.Request.Context(), ctx.Param("id"),
		fileHeader.Filename, file, fileHeader.Size, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, mentor)
}
