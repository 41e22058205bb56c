package controller

import (
	"werise_backend/internal/model"
	"werise_backend/internal/service"
	"werise_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LearningPathController struct {
	PathService *service.LearningPathService
}

func NewLearningPathController(pathService *service.LearningPathService) *LearningPathController {
	return &LearningPathController{PathService: pathService}
}

// AddCourseRequest 二选一：课程库中的 courseId，或自定义课程
// swagger:model AddCourseRequest
type AddCourseRequest struct {
	CourseID string                     `json:"courseId"`
	Custom   *service.CustomCourseInput `json:"custom"`
}

// CourseStatusRequest defines model for a course status change
// swagger:model CourseStatusRequest
type CourseStatusRequest struct {
	Status model.CourseStatus `json:"status" binding:"required"`
}

// PendingPathRequest defines model for creating a pending path
// swagger:model PendingPathRequest
type PendingPathRequest struct {
	CandidateEmail string `json:"candidateEmail" binding:"required"`
	Title          string `json:"title"`
}

// GetPath godoc
// @Summary 当前学习路径
// @Tags 学习路径
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.LearningPath} "成功，无路径时 data 为空"
// @Router /api/path [get]
func (c *LearningPathController) GetPath(ctx *gin.Context) {
	path, err := c.PathService.ActivePath(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, path)
}

// GenerateRoadmap godoc
// @Summary 生成个性化路线
// @Description 根据技能评估从课程库中挑选课程，生成后路径直接进入 active
// @Tags 学习路径
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.AssessmentInput true "技能评估"
// @Success 201 {object} util.Response{data=service.RoadmapResult} "生成成功"
// @Failure 502 {object} util.Response "补全服务不可用或返回不符合约定"
// @Router /api/path/generate [post]
func (c *LearningPathController) GenerateRoadmap(ctx *gin.Context) {
	var req service.AssessmentInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.PathService.GenerateRoadmap(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, result)
}

// AddCourse godoc
// @Summary 添加课程到路径
// @Description 同一课程重复添加不会产生重复条目
// @Tags 学习路径
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body AddCourseRequest true "课程"
// @Success 200 {object} util.Response{data=model.LearningPath} "成功"
// @Failure 404 {object} util.Response "没有学习路径或课程不存在"
// @Router /api/path/courses [post]
func (c *LearningPathController) AddCourse(ctx *gin.Context) {
	var req AddCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if (req.CourseID == "") == (req.Custom == nil) {
		util.BadRequest(ctx, "exactly one of courseId or custom is required")
		return
	}

	var (
		path *model.LearningPath
		err  error
	)
	if req.Custom != nil {
		path, err = c.PathService.AddCustomCourse(ctx.Request.Context(), *req.Custom)
	} else {
		path, err = c.PathService.AddCourseToPath(ctx.Request.Context(), req.CourseID)
	}
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, path)
}

// RemoveCourse godoc
// @Summary 从路径移除课程
// @Tags 学习路径
// @Produce  json
// @Security ApiKeyAuth
// @Param   courseId path string true "课程ID"
// @Success 200 {object} util.Response{data=model.LearningPath} "成功"
// @Router /api/path/courses/{courseId} [delete]
func (c *LearningPathController) RemoveCourse(ctx *gin.Context) {
	path, err := c.PathService.RemoveCourseFromPath(ctx.Request.Context(), ctx.Param("courseId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, path)
}

// UpdateCourseStatus godoc
// @Summary 修改课程状态
// @Description 状态可自由切换，进度随之为 100 或 0
// @Tags 学习路径
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   courseId path string true "课程ID"
// @Param   body body CourseStatusRequest true "新状态"
// @Success 200 {object} util.Response{data=model.LearningPath} "成功"
// @Router /api/path/courses/{courseId} [patch]
func (c *LearningPathController) UpdateCourseStatus(ctx *gin.Context) {
	var req CourseStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	path, err := c.PathService.SetCourseStatus(ctx.Request.Context(), ctx.Param("courseId"), req.Status)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, path)
}

// CreatePendingPath godoc
// @Summary 为候选人创建待筛选路径
// @Tags 管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body PendingPathRequest true "候选人"
// @Success 201 {object} util.Response{data=model.LearningPath} "创建成功"
// @Router /api/admin/paths [post]
func (c *LearningPathController) CreatePendingPath(ctx *gin.Context) {
	var req PendingPathRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	path, err := c.PathService.CreatePendingPath(ctx.Request.Context(), req.CandidateEmail, req.Title)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, path)
}
