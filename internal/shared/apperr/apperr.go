// Package apperr 业务错误分类
//
// 每个业务错误都携带一个可直接返回给客户端的消息，并通过 errors.Is
// 归类到下列哨兵错误之一。底层原因（存储、文件系统）只记日志，不外泄。
package apperr

import "errors"

var (
	// ErrValidation 输入缺失或格式错误
	ErrValidation = errors.New("validation error")

	// ErrConflict 唯一性冲突（重复名称、邮箱、第二个管理员）
	ErrConflict = errors.New("conflict")

	// ErrUnauthenticated 令牌缺失、无效、过期，或凭据错误
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden 已认证但角色不符
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound 引用的实体不存在
	ErrNotFound = errors.New("not found")

	// ErrStorage 存储或文件系统故障
	ErrStorage = errors.New("storage error")
)

// Error 带客户端消息的业务错误
type Error struct {
	kind  error
	msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

// Unwrap 同时暴露分类和底层原因
func (e *Error) Unwrap() []error {
	if e.cause != nil {
		return []error{e.kind, e.cause}
	}
	return []error{e.kind}
}

// Message 客户端可见消息
func (e *Error) Message() string {
	return e.msg
}

func newError(kind error, msg string, cause error) *Error {
	return &Error{kind: kind, msg: msg, cause: cause}
}

func Validation(msg string) error      { return newError(ErrValidation, msg, nil) }
func Conflict(msg string) error        { return newError(ErrConflict, msg, nil) }
func Unauthenticated(msg string) error { return newError(ErrUnauthenticated, msg, nil) }
func Forbidden(msg string) error       { return newError(ErrForbidden, msg, nil) }
func NotFound(msg string) error        { return newError(ErrNotFound, msg, nil) }

// Storage 包装底层故障；客户端只会看到 msg
func Storage(msg string, cause error) error {
	return newError(ErrStorage, msg, cause)
}

// Message 返回客户端可见消息；非业务错误统一为 "Server error"
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && !errors.Is(e.kind, ErrStorage) {
		return e.msg
	}
	return "Server error"
}
