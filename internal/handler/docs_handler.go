package handler

import (
	"net/http"

	"go-task-tracker/internal/model"
	"go-task-tracker/pkg/apierror"
)

type DocsHandler struct {
	document []byte
}

// NewDocsHandler serves the given OpenAPI document. An empty one makes
// OpenAPI answer 404.
func NewDocsHandler(document []byte) *DocsHandler {
	return &DocsHandler{document: document}
}

func (h *DocsHandler) OpenAPI(w http.ResponseWriter, r *http.Request) {
	if h == nil || len(h.document) == 0 {
		writeError(w, r, apierror.Wrap(model.ErrNotFound, "NOT_FOUND", "OpenAPI document not available", "", http.StatusNotFound))
		return
	}

	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(h.document)
}

func (h *DocsHandler) SwaggerUI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Security-Policy", "default-src 'self'; connect-src 'self' https://unpkg.com; script-src 'self' 'unsafe-inline' https://unpkg.com; style-src 'self' 'unsafe-inline' https://unpkg.com; img-src 'self' data: https://validator.swagger.io")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(swaggerPage))
}

const swaggerPage = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>Task Manager API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
    <style>body{margin:0;background:#fafafa;}#swagger-ui{max-width:1200px;margin:0 auto;}</style>
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
        persistAuthorization: true
      });
    </script>
  </body>
</html>`
