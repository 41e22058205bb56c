package middleware

import (
	"errors"
	"strings"
	"werise_backend/internal/model"
	"werise_backend/internal/service"
	"werise_backend/internal/util"
	"werise_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const profileKey = "profile"

// AuthMiddleware 校验会话令牌，并要求当前设备的会话资料仍属于令牌中的用户
func AuthMiddleware(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, profile, err := authService.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			if !errors.Is(err, util.ErrNotSignedIn) {
				util.LogInternalError(c, err)
				c.Abort()
				return
			}
			logger.ForDevice(c.GetString(util.DeviceContextKey)).Debug("Session rejected", zap.Error(err))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("user", claims)
		c.Set(profileKey, profile)
		c.Set(util.EmailContextKey, profile.Email)
		c.Next()
	}
}

// RoleMiddleware 管理员拥有所有角色的权限
func RoleMiddleware(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile := GetProfile(c)
		if profile == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		if profile.Role == model.RoleAdmin {
			c.Next()
			return
		}
		for _, role := range roles {
			if profile.Role == role {
				c.Next()
				return
			}
		}

		util.Forbidden(c)
		c.Abort()
	}
}

func GetProfile(c *gin.Context) *model.UserProfile {
	v, exists := c.Get(profileKey)
	if !exists {
		return nil
	}
	p, ok := v.(*model.UserProfile)
	if !ok {
		return nil
	}
	return p
}
