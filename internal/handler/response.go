package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"go-task-tracker/internal/model"
	"go-task-tracker/pkg/apierror"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError turns err into a problem-detail body. APIErrors carry their own
// status; bare sentinels fall back to a fixed mapping.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	detail := err.Error()
	description := "Unknown internal server error."

	var apiErr *apierror.APIError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatus
		detail = apiErr.Message
		description = apiErr.Details
	case errors.Is(err, model.ErrTaskNotFound):
		status = http.StatusNotFound
		description = "The requested task does not exist"
	case errors.Is(err, model.ErrUserNotFound):
		status = http.StatusNotFound
		description = "The requested user does not exist"
	case errors.Is(err, model.ErrUserAlreadyExists):
		status = http.StatusConflict
		description = "A user with this email/username already exists"
	case errors.Is(err, model.ErrInvalidCredentials):
		status = http.StatusUnauthorized
		description = "The username or password is incorrect"
	case errors.Is(err, model.ErrForbidden):
		status = http.StatusForbidden
		description = "You are not authorized to access this resource"
	case errors.Is(err, model.ErrInvalidInput):
		status = http.StatusBadRequest
		description = "Invalid parameter value provided"
	default:
		slog.Error("unhandled error in writeError", "error", err.Error(), "path", r.URL.Path)
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.NewProblem(status, detail, description, r.URL.Path))
}

// decodeJSON reads a single JSON document into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apierror.Wrap(model.ErrInvalidInput, "BAD_REQUEST", "Failed to read request",
			fmt.Sprintf("invalid JSON body: %v", err), http.StatusBadRequest)
	}
	return nil
}

func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, apierror.Wrap(model.ErrNotFound, "NOT_FOUND", "No endpoint "+r.Method+" "+r.URL.Path, "", http.StatusNotFound))
}

func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, apierror.New("METHOD_NOT_ALLOWED", "Request method '"+r.Method+"' is not supported", "", http.StatusMethodNotAllowed))
}
