package apperror

import (
	"errors"
	"net/http"
)

type Code string

const (
	BadRequest Code = "BAD_REQUEST"
	NotFound   Code = "NOT_FOUND"
	Internal   Code = "INTERNAL"
)

type AppError struct {
	code    Code
	message string
}

func New(code Code, message string) *AppError {
	return &AppError{code: code, message: message}
}

func (e *AppError) Error() string   { return e.message }
func (e *AppError) Code() Code      { return e.code }
func (e *AppError) Message() string { return e.message }

func (e *AppError) HTTPStatus() int {
	switch e.code {
	case BadRequest:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// IsNotFound reports whether err is an AppError carrying the NotFound code.
func IsNotFound(err error) bool {
	var ae *AppError
	return errors.As(err, &ae) && ae.code == NotFound
}
