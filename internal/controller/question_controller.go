package controller

import (
	"werise_backend/internal/middleware"
	"werise_backend/internal/service"
	"werise_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	QuestionService *service.QuestionService
}

func NewQuestionController(questionService *service.QuestionService) *QuestionController {
	return &QuestionController{QuestionService: questionService}
}

// SubmitExamRequest 作答按题目顺序给出选项下标
// swagger:model SubmitExamRequest
type SubmitExamRequest struct {
	Answers []int `json:"answers" binding:"required"`
}

// ListQuestions godoc
// @Summary 题库（含答案）
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Question} "成功"
// @Router /api/admin/questions [get]
func (c *QuestionController) ListQuestions(ctx *gin.Context) {
	qs, err := c.QuestionService.List(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, qs)
}

// CreateQuestion godoc
// @Summary 新增题目
// @Tags 管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.QuestionInput true "题目"
// @Success 201 {object} util.Response{data=model.Question} "创建成功"
// @Failure 400 {object} util.Response "题目不合法"
// @Router /api/admin/questions [post]
func (c *QuestionController) CreateQuestion(ctx *gin.Context) {
	var req service.QuestionInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.QuestionService.Create(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, q)
}

// UpdateQuestion godoc
// @Summary 编辑题目
// @Tags 管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "题目ID"
// @Param   body body service.QuestionInput true "题目"
// @Success 200 {object} util.Response{data=model.Question} "成功"
// @Router /api/admin/questions/{id} [put]
func (c *QuestionController) UpdateQuestion(ctx *gin.Context) {
	var req service.QuestionInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.QuestionService.Update(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

// DeleteQuestion godoc
// @Summary 删除题目
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "题目ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/admin/questions/{id} [delete]
func (c *QuestionController) DeleteQuestion(ctx *gin.Context) {
	if err := c.QuestionService.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// GetExam godoc
// @Summary 知识测验题目
// @Description 不包含正确答案
// @Tags 测验
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.ExamQuestion} "成功"
// @Router /api/exam [get]
func (c *QuestionController) GetExam(ctx *gin.Context) {
	qs, err := c.QuestionService.Exam(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, qs)
}

// SubmitExam godoc
// @Summary 提交测验
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body SubmitExamRequest true "作答"
// @Success 200 {object} util.Response{data=model.EvaluationResult} "成功"
// @Router /api/exam/submit [post]
func (c *QuestionController) SubmitExam(ctx *gin.Context) {
	var req SubmitExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.QuestionService.Submit(ctx.Request.Context(), middleware.GetProfile(ctx), req.Answers)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
