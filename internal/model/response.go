package model

import "net/http"

// ProblemDetail is the error body returned by the API for every failed request.
type ProblemDetail struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Status      int    `json:"status"`
	Detail      string `json:"detail"`
	Instance    string `json:"instance,omitempty"`
	Description string `json:"description,omitempty"`
}

func NewProblem(status int, detail string, description string, instance string) ProblemDetail {
	return ProblemDetail{
		Type:        "about:blank",
		Title:       http.StatusText(status),
		Status:      status,
		Detail:      detail,
		Instance:    instance,
		Description: description,
	}
}
