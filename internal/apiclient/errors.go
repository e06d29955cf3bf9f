package apiclient

import (
	"errors"
	"fmt"
	"net/http"

	"go-task-tracker/internal/model"
)

// ResponseError is a non-2xx answer from the API. It unwraps to the model
// sentinel that matches its status class.
type ResponseError struct {
	Method     string
	Path       string
	StatusCode int
	Problem    model.ProblemDetail
	kind       error
}

func (e *ResponseError) Error() string {
	msg := e.Problem.Description
	if msg == "" {
		msg = e.Problem.Detail
	}
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}

	return fmt.Sprintf("%s %s: %d: %s", e.Method, e.Path, e.StatusCode, msg)
}

func (e *ResponseError) Unwrap() error {
	return e.kind
}

// NetworkError is a failure to get any response at all.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() []error {
	return []error{model.ErrNetwork, e.Err}
}

func classify(status int) error {
	switch {
	case status == http.StatusUnauthorized:
		return model.ErrUnauthorized
	case status == http.StatusForbidden:
		return model.ErrForbidden
	case status == http.StatusNotFound:
		return model.ErrNotFound
	case status == http.StatusConflict:
		return model.ErrConflict
	case status >= 400 && status < 500:
		return model.ErrInvalidInput
	default:
		return model.ErrServer
	}
}

// UserMessage picks the server's human-readable description for err, or
// fallback when there is none.
func UserMessage(err error, fallback string) string {
	var respErr *ResponseError
	if errors.As(err, &respErr) && respErr.Problem.Description != "" {
		return respErr.Problem.Description
	}
	return fallback
}
