package layout

import (
	"errors"
	"fmt"
)

// 可恢复的换行错误：调用方应提示用户重新输入。
var (
	ErrEmptyInput   = errors.New("输入为空")
	ErrWordTooLong  = errors.New("输入中包含过长的单词")
	ErrTooManyLines = errors.New("输入过长")
)

// ErrTitleTooWide 表示标题在配置字号下超出画布宽度，属于配置错误。
var ErrTitleTooWide = errors.New("标题超出画布宽度")

// WrapError 携带换行失败的上下文，Unwrap 返回上面的哨兵错误之一。
type WrapError struct {
	Kind  error
	Token string // ErrWordTooLong 时为超宽的单词
	Lines int    // ErrTooManyLines 时为所需行数
	Limit int    // 单行宽度预算（像素）
}

func (e *WrapError) Error() string {
	switch e.Kind {
	case ErrWordTooLong:
		return fmt.Sprintf("%v: %q 超过单行宽度 %dpx", e.Kind, e.Token, e.Limit)
	case ErrTooManyLines:
		return fmt.Sprintf("%v: 需要 %d 行", e.Kind, e.Lines)
	default:
		return e.Kind.Error()
	}
}

func (e *WrapError) Unwrap() error { return e.Kind }

// KindName 返回错误类别的短名称，供 JSON 接口使用。
func (e *WrapError) KindName() string {
	switch e.Kind {
	case ErrEmptyInput:
		return "empty_input"
	case ErrWordTooLong:
		return "word_too_long"
	case ErrTooManyLines:
		return "too_many_lines"
	default:
		return "unknown"
	}
}

// IsRecoverable 判断错误是否应当重新提示输入，而不是终止。
func IsRecoverable(err error) bool {
	var we *WrapError
	return errors.As(err, &we)
}
