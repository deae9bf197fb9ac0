package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	Conflict            = 409
	InternalServerError = 500
)

var (
	ErrParamInvalid            = errors.New("参数错误")
	ErrContentEmpty            = errors.New("内容和媒体不能同时为空")
	ErrDepthExceeded           = errors.New("评论嵌套层级超过限制")
	ErrMentionInvalid          = errors.New("提及的用户不存在")
	ErrEntityNotFound          = errors.New("内容不存在")
	ErrUserNotFound            = errors.New("用户不存在")
	ErrNotificationNotFound    = errors.New("通知不存在")
	ErrUsernameInvalid         = errors.New("用户名格式不正确")
	ErrUserExist               = errors.New("用户名已存在")
	ErrPasswordIncorrect       = errors.New("密码错误")
	ErrMissingLoginCredentials = errors.New("缺少登录凭据")
	ErrUserFollowSelf          = errors.New("用户不能关注自己")
	ErrFileNotSupported        = errors.New("不支持的文件类型")
	ForbiddenError             = errors.New("权限不足")
	UnExpectedError            = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:            BadRequest,
	ErrContentEmpty:            BadRequest,
	ErrDepthExceeded:           BadRequest,
	ErrMentionInvalid:          BadRequest,
	ErrEntityNotFound:          NotFound,
	ErrUserNotFound:            NotFound,
	ErrNotificationNotFound:    NotFound,
	ErrUsernameInvalid:         BadRequest,
	ErrUserExist:               Conflict,
	ErrPasswordIncorrect:       Unauthorized,
	ErrMissingLoginCredentials: Unauthorized,
	ErrUserFollowSelf:          BadRequest,
	ErrFileNotSupported:        BadRequest,
	ForbiddenError:             Forbidden,
	UnExpectedError:            InternalServerError,
}
