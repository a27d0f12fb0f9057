// Package errors 定义业务错误码和错误处理
package errors

import (
	"fmt"
)

// AppError 应用错误
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 实现 errors.Unwrap
func (e *AppError) Unwrap() error {
	return e.Err
}

// New 创建新的应用错误
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装错误
func Wrap(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithMessage 修改错误消息
func (e *AppError) WithMessage(message string) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: message,
		Err:     e.Err,
	}
}

// WithError 添加原始错误
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Err:     err,
	}
}

// 通用错误码 (1000-1999)
var (
	ErrUnknown         = New(1000, "未知错误")
	ErrInvalidParams   = New(1001, "参数错误")
	ErrNotFound        = New(1002, "资源不存在")
	ErrAlreadyExists   = New(1003, "资源已存在")
	ErrDatabaseError   = New(1004, "数据库错误")
	ErrCacheError      = New(1005, "缓存错误")
	ErrInternalError   = New(1006, "内部错误")
	ErrRateLimitExceed = New(1007, "请求过于频繁")
	ErrOperationFailed = New(1008, "操作失败")
)

// 认证错误码 (2000-2999)
var (
	ErrUnauthorized     = New(2000, "未登录")
	ErrTokenExpired     = New(2001, "登录已过期")
	ErrTokenInvalid     = New(2002, "无效的令牌")
	ErrTokenRefreshFail = New(2003, "刷新令牌失败")
	ErrPermissionDenied = New(2004, "权限不足")
	ErrPasswordError    = New(2005, "邮箱或密码错误")
	ErrOAuthProvider    = New(2006, "不支持的第三方登录渠道")
)

// 用户错误码 (3000-3999)
var (
	ErrUserNotFound = New(3000, "用户不存在")
	ErrUserExists   = New(3001, "用户已存在")
	ErrEmailExists  = New(3002, "邮箱已被注册")
	ErrEmailInvalid = New(3003, "无效的邮箱")
)

// 房间错误码 (4000-4999)
var (
	ErrRoomNotFound    = New(4000, "房间不存在")
	ErrRoomExists      = New(4001, "房间号已存在")
	ErrRoomNotAvailable = New(4002, "房间不可用")
	ErrRoomMaintenance = New(4003, "房间维护中")
	ErrRoomHasReservations = New(4004, "房间存在未完成的预订")
	ErrRoomTypeInvalid = New(4005, "无效的房型")
)

// 预订错误码 (5000-5999)
var (
	ErrReservationNotFound    = New(5000, "预订不存在")
	ErrReservationStatusError = New(5001, "预订状态异常")
	ErrReservationConflict    = New(5002, "日期区间已被预订")
	ErrReservationNotOwner    = New(5003, "无权操作该预订")
	ErrDateRangeInvalid       = New(5004, "无效的日期区间")
	ErrDateInPast             = New(5005, "入住日期不能早于今天")
	ErrReservationNotDeletable = New(5006, "仅可删除已取消或已完成的预订")
)

// 附加服务错误码 (6000-6999)
var (
	ErrServiceNotFound = New(6000, "附加服务不存在")
	ErrServiceInUse    = New(6001, "附加服务已被预订引用")
)

// 支付错误码 (7000-7999)
var (
	ErrPaymentNotFound = New(7000, "支付记录不存在")
	ErrPaymentExists   = New(7001, "预订已存在支付记录")
	ErrAmountInvalid   = New(7002, "无效的金额")
)

// IsAppError 判断是否为应用错误
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetAppError 获取应用错误
func GetAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return ErrUnknown.WithError(err)
}
