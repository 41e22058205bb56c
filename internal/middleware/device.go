package middleware

import (
	"strings"
	"werise_backend/internal/repository"
	"werise_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// DeviceMiddleware 按 X-Device-ID 选择存储命名空间，缺省为 default
func DeviceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		device := strings.TrimSpace(c.GetHeader(util.DeviceHeader))
		if device == "" {
			device = repository.DefaultNamespace
		}
		if !repository.ValidNamespace(device) {
			util.BadRequest(c, "invalid "+util.DeviceHeader+" header")
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(repository.WithNamespace(c.Request.Context(), device))
		c.Set(util.DeviceContextKey, device)
		c.Next()
	}
}
