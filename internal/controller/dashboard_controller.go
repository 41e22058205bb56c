package controller

import (
	"werise_backend/internal/service"
	"werise_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	DashboardService *service.DashboardService
}

func NewDashboardController(dashboardService *service.DashboardService) *DashboardController {
	return &DashboardController{DashboardService: dashboardService}
}

// GetDashboard godoc
// @Summary 学员首页
// @Description 资料、当前路径、完成情况、总学时与通知
// @Tags 首页
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.Dashboard} "成功"
// @Router /api/dashboard [get]
func (c *DashboardController) GetDashboard(ctx *gin.Context) {
	d, err := c.DashboardService.Dashboard(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, d)
}

// GetNotifications godoc
// @Summary 通知列表
// @Description 最新在前，最多 5 条
// @Tags 首页
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]string} "成功"
// @Router /api/notifications [get]
func (c *DashboardController) GetNotifications(ctx *gin.Context) {
	n, err := c.DashboardService.Notifications(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, n)
}

// GetAdminStats godoc
// @Summary 管理后台统计
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.AdminStats} "成功"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/admin/stats [get]
func (c *DashboardController) GetAdminStats(ctx *gin.Context) {
	stats, err := c.DashboardService.AdminStats(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}
