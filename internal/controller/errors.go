package controller

import (
	"errors"
	"net/http"
	"werise_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// respondError 把领域错误映射为 HTTP 状态码，未识别的错误记日志后返回 500
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrDuplicateEmail), errors.Is(err, util.ErrPathPending):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrInvalidCredentials), errors.Is(err, util.ErrNotSignedIn):
		util.Error(ctx, http.StatusUnauthorized, err.Error())
	case errors.Is(err, util.ErrPermissionDenied):
		util.Error(ctx, http.StatusForbidden, err.Error())
	case errors.Is(err, util.ErrEmailNotFound),
		errors.Is(err, util.ErrPathNotFound),
		errors.Is(err, util.ErrNoActivePath),
		errors.Is(err, util.ErrCourseNotFound),
		errors.Is(err, util.ErrMentorNotFound),
		errors.Is(err, util.ErrAssignmentNotFound),
		errors.Is(err, util.ErrQuestionNotFound):
		util.Error(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, util.ErrValidation),
		errors.Is(err, util.ErrInvalidRole),
		errors.Is(err, util.ErrEmptyCuration),
		errors.Is(err, util.ErrNoQuestions):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrEmptyCoursePool):
		util.Error(ctx, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, util.ErrGatewayUnavailable), errors.Is(err, util.ErrGatewaySchemaMismatch):
		util.Error(ctx, http.StatusBadGateway, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
