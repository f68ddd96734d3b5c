package constants

import (
	"fmt"
	"net/http"
)

// CodedError carries the HTTP status the error handler answers with.
type CodedError struct {
	code int
	msg  string
}

func NewCodedError(msg string, code int) *CodedError {
	return &CodedError{code: code, msg: msg}
}

func (e *CodedError) Error() string {
	return e.msg
}

func (e *CodedError) Code() int {
	return e.code
}

// Wrapf returns a new coded error with the same code and a formatted message.
// errors.Is against the original sentinel keeps working through Unwrap.
func (e *CodedError) Wrapf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), e)
}

var (
	ErrBadRequest         = NewCodedError("bad request", http.StatusBadRequest)
	ErrMissingAuthCookie  = NewCodedError("missing auth cookie", http.StatusUnauthorized)
	ErrInvalidToken       = NewCodedError("invalid token", http.StatusUnauthorized)
	ErrInvalidCredentials = NewCodedError("invalid username or password", http.StatusUnauthorized)
	ErrUsernameTaken      = NewCodedError("username already exists", http.StatusConflict)
	ErrPasswordMismatch   = NewCodedError("passwords do not match", http.StatusBadRequest)
	ErrWeakPassword       = NewCodedError("password does not meet the requirements", http.StatusBadRequest)
	ErrDBNotFound         = NewCodedError("not found", http.StatusNotFound)
	ErrNoDefects          = NewCodedError("no defects matched the given conditions", http.StatusNotFound)
	ErrUpstream           = NewCodedError("defect api request failed", http.StatusBadGateway)
	ErrLLMNotConfigured   = NewCodedError("llm api key is not set", http.StatusInternalServerError)
)
