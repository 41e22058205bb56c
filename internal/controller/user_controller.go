package controller

import (
	"werise_backend/internal/middleware"
	"werise_backend/internal/service"
	"werise_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// GetProfile godoc
// @Summary 当前会话资料
// @Tags 用户
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.UserProfile} "成功"
// @Failure 401 {object} util.Response "未登录"
// @Router /api/profile [get]
func (c *UserController) GetProfile(ctx *gin.Context) {
	util.Success(ctx, middleware.GetProfile(ctx))
}

// UpdateProfile godoc
// @Summary 更新资料
// @Description 邮箱和角色不可修改
// @Tags 用户
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.ProfileUpdate true "资料字段"
// @Success 200 {object} util.Response{data=model.UserProfile} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/profile [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	var req service.ProfileUpdate
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	profile, err := c.UserService.UpdateProfile(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, profile)
}

// ResetDevice godoc
// @Summary 重置当前设备的全部数据
// @Description 删除设备命名空间内的会话、注册用户、课程库、题库、导师、分配、路径和通知；下次读取时恢复默认数据，当前令牌随之失效
// @Tags 用户
// @Produce  json
// @Security ApiKeyAuth
// @Param   X-Device-ID header string false "设备标识"
// @Success 200 {object} util.Response "成功"
// @Router /api/device [delete]
func (c *UserController) ResetDevice(ctx *gin.Context) {
	if err := c.UserService.ResetDevice(ctx.Request.Context()); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
