package middleware

import (
	"encoding/json"
	"net/http"

	"go-task-tracker/internal/model"
)

func writeProblem(w http.ResponseWriter, r *http.Request, status int, detail string, description string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.NewProblem(status, detail, description, r.URL.Path))
}
