package controller

import (
	"net/http"
	"werise_backend/internal/repository"
	"werise_backend/internal/util"
	"werise_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const healthProbeKey = "__health"

type HealthController struct {
	Store       repository.Store
	StoreDriver string
}

func NewHealthController(store repository.Store, driver string) *HealthController {
	return &HealthController{Store: store, StoreDriver: driver}
}

// @Summary 健康检查
// @Description 检查服务与存储后端状态
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Failure 503 {object} util.Response
// @Router /api/health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	if _, _, err := c.Store.Get(ctx.Request.Context(), healthProbeKey); err != nil {
		logger.Log.Error("Store health probe failed", zap.String("driver", c.StoreDriver), zap.Error(err))
		util.Error(ctx, http.StatusServiceUnavailable, "Store unavailable")
		return
	}

	util.Success(ctx, gin.H{
		"status": "ok",
		"components": gin.H{
			"store": c.StoreDriver,
		},
	})
}
