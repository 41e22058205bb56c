package util

import "errors"

var (
	// 会话与身份
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotFound      = errors.New("email not found")
	ErrNotSignedIn        = errors.New("no active session")
	ErrInvalidRole        = errors.New("invalid role")
	ErrPermissionDenied   = errors.New("permission denied")

	// 存储
	ErrParse = errors.New("malformed stored value")

	// 补全网关
	ErrGatewayUnavailable    = errors.New("completion gateway unavailable")
	ErrGatewaySchemaMismatch = errors.New("completion gateway response does not match schema")
	ErrEmptyCoursePool       = errors.New("course pool is empty")
	ErrRoadmapNotGenerated   = errors.New("no learning path generated")

	// 领域
	ErrNoActivePath       = errors.New("no active learning path")
	ErrPathNotFound       = errors.New("learning path not found")
	ErrPathPending        = errors.New("learning path is awaiting mentor curation")
	ErrCourseNotFound     = errors.New("course not found")
	ErrMentorNotFound     = errors.New("mentor not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrEmptyCuration      = errors.New("curation requires at least one course")
	ErrNoQuestions        = errors.New("no exam questions available")
	ErrValidation         = errors.New("validation failed")
)
