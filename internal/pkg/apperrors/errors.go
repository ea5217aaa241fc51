package apperrors

import (
	"errors"
	"fmt"
	"time"
)

// AppError is the error type the HTTP layer knows how to map to a status code.
// Services return these for caller mistakes; everything else is treated as a
// persistence/service failure (500).
type AppError struct {
	Code    int
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func NotFound(what string) *AppError {
	return &AppError{Code: 404, Message: fmt.Sprintf("%s not found or access denied", what)}
}

func Unauthorized(msg string) *AppError {
	return &AppError{Code: 401, Message: msg}
}

func Validation(msg string) *AppError {
	return &AppError{Code: 400, Message: msg}
}

// RateLimitError carries the limiter verdict so the 429 response can tell the
// client when to retry.
type RateLimitError struct {
	Limit      int
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return "rate limit exceeded"
}

func IsNotFound(err error) bool {
	var ae *AppError
	return errors.As(err, &ae) && ae.Code == 404
}
