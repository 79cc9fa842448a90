package apperr

import (
	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Kind 业务错误分类，handler层据此映射HTTP状态码
type Kind int

const (
	KindNotFound Kind = iota + 1 // 目标资源不存在 -> 404
	KindForbidden                // 不是资源的所有者 -> 403
	KindInvalid                  // 非法操作，如订阅自己 -> 422
	KindConflict                 // 唯一字段冲突，如用户名已存在 -> 422
	KindInternal                 // 存储层等内部错误 -> 500，不向调用方泄露细节
)

type Error struct {
	Kind Kind
	Msg  string // 可以安全展示给调用方的消息
	Err  error  // 底层原因，只进日志
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NotFound(msg string) error {
	return &Error{Kind: KindNotFound, Msg: msg}
}

func Forbidden(msg string) error {
	return &Error{Kind: KindForbidden, Msg: msg}
}

func Invalid(msg string) error {
	return &Error{Kind: KindInvalid, Msg: msg}
}

func Conflict(msg string) error {
	return &Error{Kind: KindConflict, Msg: msg}
}

func Internal(msg string, cause error) error {
	return &Error{Kind: KindInternal, Msg: msg, Err: errors.WithStack(cause)}
}

// KindOf 取错误的分类，非本包错误一律按Internal处理
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message 取可展示的消息，内部错误返回统一话术
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Msg
	}
	return "服务器内部错误"
}

// FromStorage 把存储层错误翻译成业务错误：
// 记录不存在 -> NotFound，MySQL 1062重复键 -> Conflict，其余包成Internal
func FromStorage(err error, notFoundMsg, conflictMsg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound(notFoundMsg)
	}
	if IsDuplicateKey(err) {
		return Conflict(conflictMsg)
	}
	return Internal("存储操作失败", err)
}

// IsDuplicateKey 判断是否MySQL唯一键冲突（错误号1062）
func IsDuplicateKey(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}
