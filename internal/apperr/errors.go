// Package apperr 定义跨模块共享的错误分类。
// 各模块的具体错误通过 fmt.Errorf("%w: ...", Kind) 归入某一分类，
// 调用方既可以 errors.Is 具体错误，也可以 errors.Is 分类。
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrValidation  = errors.New("validation failed")
	ErrPersistence = errors.New("persistence failed")
	ErrNetwork     = errors.New("network error")
	ErrTimeout     = errors.New("request timed out")
	ErrNotFound    = errors.New("not found")
)

// PersistenceError 存储读写失败
type PersistenceError struct {
	Op  string // get / set / delete
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("persistence %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("persistence %s %q failed: %v", e.Op, e.Key, e.Err)
}

// Unwrap 同时暴露分类与底层错误
func (e *PersistenceError) Unwrap() []error {
	return []error{ErrPersistence, e.Err}
}

// Persistence 包装存储错误，err 为 nil 时返回 nil
func Persistence(op, key string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Key: key, Err: err}
}

// Kind 返回错误所属分类，无法识别时返回 nil
func Kind(err error) error {
	for _, kind := range []error{ErrValidation, ErrPersistence, ErrTimeout, ErrNetwork, ErrNotFound} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// Retryable 网络类错误可由用户重试
func Retryable(err error) bool {
	return errors.Is(err, ErrNetwork) || errors.Is(err, ErrTimeout)
}
