package model

import (
	"errors"
	"net/http"
)

// Error 携带 HTTP 状态码的错误
type Error struct {
	Code    int
	Message string // 面向用户的提示
	Err     error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	var t *Error
	ok := errors.As(target, &t)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Err.Error() == t.Err.Error()
}

// NewError 创建错误，message 同时作为用户提示
func NewError(code int, message string) error {
	return &Error{Code: code, Message: message, Err: errors.New(message)}
}

// Wrap 为已有错误附加状态码和用户提示
func Wrap(code int, message string, err error) error {
	return &Error{Code: code, Message: message, Err: err}
}

// StatusOf 非 *Error 一律视为 500
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return http.StatusInternalServerError
}
