package controller

import (
	"werise_backend/internal/service"
	"werise_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// SignUpRequest defines model for registration
// swagger:model SignUpRequest
type SignUpRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"omitempty,oneof=user admin mentor"`
	MentorID string `json:"mentorId"`
}

// SignInRequest defines model for sign-in
// swagger:model SignInRequest
type SignInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// PasswordResetRequest defines model for password reset
// swagger:model PasswordResetRequest
type PasswordResetRequest struct {
	Email string `json:"email" binding:"required"`
}

// SignUp godoc
// @Summary 注册新用户
// @Description 追加注册记录，不建立会话
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   X-Device-ID header string false "设备标识"
// @Param   body body SignUpRequest true "用户注册信息"
// @Success 201 {object} util.Response{data=object} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 409 {object} util.Response "邮箱已被注册"
// @Router /api/auth/signup [post]
func (c *AuthController) SignUp(ctx *gin.Context) {
	var req SignUpRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.AuthService.SignUp(ctx.Request.Context(), service.SignUpInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		MentorID: req.MentorID,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{"email": user.Email, "role": user.Role})
}

// SignIn godoc
// @Summary 登录
// @Description 建立当前设备的会话，返回会话令牌、资料和学习路径
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   X-Device-ID header string false "设备标识"
// @Param   body body SignInRequest true "登录凭据"
// @Success 200 {object} util.Response{data=service.SignInResult} "登录成功"
// @Failure 401 {object} util.Response "邮箱或密码错误"
// @Router /api/auth/signin [post]
func (c *AuthController) SignIn(ctx *gin.Context) {
	var req SignInRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AuthService.SignIn(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// RequestPasswordReset godoc
// @Summary 申请重置密码
// @Description 模拟流程，仅校验邮箱是否注册
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body PasswordResetRequest true "邮箱"
// @Success 200 {object} util.Response "已受理"
// @Failure 404 {object} util.Response "邮箱未注册"
// @Router /api/auth/password-reset [post]
func (c *AuthController) RequestPasswordReset(ctx *gin.Context) {
	var req PasswordResetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.AuthService.RequestPasswordReset(ctx.Request.Context(), req.Email); err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"message": "If the account exists, reset instructions have been sent."})
}

// SignOut godoc
// @Summary 退出登录
// @Description 清除当前设备的会话资料和会话路径
// @Tags 认证
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response "成功"
// @Router /api/auth/signout [post]
func (c *AuthController) SignOut(ctx *gin.Context) {
	if err := c.AuthService.SignOut(ctx.Request.Context()); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
