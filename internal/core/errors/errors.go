// Package errors carries typed failures across the linter: every error that
// reaches the command line has a code that selects its exit status.
package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

type ErrorCode string

const (
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeValidationError  ErrorCode = "VALIDATION_ERROR"
	CodeInternal         ErrorCode = "INTERNAL_ERROR"
	CodePermissionDenied ErrorCode = "PERMISSION_DENIED"
)

// Context keys attached by the enumerator, the configuration loader and the
// checks.
const (
	CtxPath    = "path"
	CtxPattern = "pattern"
	CtxCheck   = "check"
)

type DomainError struct {
	Code    ErrorCode
	Message string
	Err     error
	Context map[string]any
}

func (e *DomainError) WithContext(key string, value any) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// Error renders "[CODE] message: cause (key=value, ...)" with context keys in
// sorted order.
func (e *DomainError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.Code, e.Message)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if len(e.Context) == 0 {
		return b.String()
	}
	keys := make([]string, 0, len(e.Context))
	for k := range e.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	b.WriteString(" (")
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%v", k, e.Context[k])
	}
	b.WriteString(")")
	return b.String()
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches another DomainError by code and message so package-level
// sentinels match instances that picked up context on the way.
func (e *DomainError) Is(target error) bool {
	var de *DomainError
	if !errors.As(target, &de) {
		return false
	}
	return de.Code == e.Code && de.Message == e.Message
}

func New(code ErrorCode, msg string) error {
	return &DomainError{Code: code, Message: msg}
}

func Wrap(err error, code ErrorCode, msg string) error {
	return &DomainError{Code: code, Message: msg, Err: err}
}

// AddContext attaches key/value context, wrapping foreign errors as internal ones.
func AddContext(err error, key string, value any) error {
	var de *DomainError
	if errors.As(err, &de) {
		de.WithContext(key, value)
		return de
	}
	return &DomainError{
		Code:    CodeInternal,
		Message: "wrapped error",
		Err:     err,
		Context: map[string]any{key: value},
	}
}

// CodeOf returns the code of the outermost DomainError in err's chain. Errors
// without one are internal.
func CodeOf(err error) ErrorCode {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ContextValue returns the value stored under key by the outermost
// DomainError in err's chain.
func ContextValue(err error, key string) (any, bool) {
	var de *DomainError
	if !errors.As(err, &de) {
		return nil, false
	}
	v, ok := de.Context[key]
	return v, ok
}

// IsCode checks if an error has a specific error code.
func IsCode(err error, code ErrorCode) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == code
}
