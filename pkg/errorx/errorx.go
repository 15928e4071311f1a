// Package errorx 中继服务的业务错误码
// HTTP 响应的 code 字段和 WebSocket error 事件都取自这里
package errorx

import (
	"errors"
	"fmt"
)

// CodeError 业务错误码加中文提示，cause 为 gorm、redis、kafka 返回的原始错误
type CodeError struct {
	Code  int    // 业务错误码
	Msg   string // 错误消息
	cause error  // 被包装的底层错误
}

// Error 形如 "消息持久化失败: dial tcp ..."
func (e *CodeError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.cause)
	}
	return e.Msg
}

func (e *CodeError) Unwrap() error {
	return e.cause
}

// Is 按错误码比较，errors.Is(err, ErrAlreadyActive) 可识别包装过的重复登录
func (e *CodeError) Is(target error) bool {
	var t *CodeError
	if !errors.As(target, &t) {
		return false
	}
	return t.cause == nil && t.Code == e.Code
}

func New(code int, msg string) *CodeError {
	return &CodeError{
		Code: code,
		Msg:  msg,
	}
}

func Newf(code int, format string, args ...any) *CodeError {
	return &CodeError{
		Code: code,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// Wrap 例如 errorx.Wrap(err, CodePersistenceUnavailable, "消息持久化失败")
func Wrap(err error, code int, msg string) *CodeError {
	return &CodeError{
		Code:  code,
		Msg:   msg,
		cause: err,
	}
}

func Wrapf(err error, code int, format string, args ...any) *CodeError {
	return &CodeError{
		Code:  code,
		Msg:   fmt.Sprintf(format, args...),
		cause: err,
	}
}

// GetCode 沿错误链取业务码，未分类的错误按 CodeServerBusy 处理
func GetCode(err error) int {
	var codeErr *CodeError
	if errors.As(err, &codeErr) {
		return codeErr.Code
	}
	return CodeServerBusy
}

// 响应 code
const (
	CodeSuccess                = 1000 // 成功
	CodeInvalidParam           = 1001 // 请求参数错误
	CodeServerBusy             = 1005 // 服务繁忙
	CodeUnauthorized           = 1006 // 未授权/认证失败
	CodeNotFound               = 1008 // 资源不存在
	CodePersistenceUnavailable = 1010 // 持久化存储不可用
	CodeCacheError             = 1011 // 缓存错误
	CodeAlreadyActive          = 1012 // 账号已有活跃连接
)

// 不带 cause 的错误实例
var (
	ErrInvalidParam  = New(CodeInvalidParam, "请求参数错误")
	ErrServerBusy    = New(CodeServerBusy, "服务繁忙")
	ErrUnauthorized  = New(CodeUnauthorized, "未授权")
	ErrAlreadyActive = New(CodeAlreadyActive, "账号已在其他设备登录，不允许多端同时在线")
)
