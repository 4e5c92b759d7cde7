package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"labsheet/internal/app"
	"labsheet/internal/export"
	"labsheet/internal/transport/http/middleware"
	"labsheet/internal/transport/http/response"
	"labsheet/internal/upload"
)

// writeError maps service errors onto status codes; anything unknown becomes
// a 500 carrying fallback.
func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, app.ErrMissingAPIKey):
		response.Error(c, http.StatusBadRequest, response.CodeMissingAPIKey, app.MissingAPIKeyMessage)
	case errors.Is(err, app.ErrInvalidModel):
		response.Error(c, http.StatusBadRequest, response.CodeInvalidModel, err.Error())
	case errors.Is(err, upload.ErrUnsupportedTemplate):
		response.Error(c, http.StatusBadRequest, response.CodeUnsupportedFile, upload.UnsupportedTemplateMessage)
	case errors.Is(err, export.ErrUnsupportedFormat):
		response.Error(c, http.StatusBadRequest, response.CodeUnsupportedFormat, err.Error())
	case errors.Is(err, app.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
	case errors.Is(err, app.ErrWorkspaceNotFound):
		response.Error(c, http.StatusNotFound, response.CodeWorkspaceNotFound, err.Error())
	case errors.Is(err, app.ErrSectionNotFound):
		response.Error(c, http.StatusNotFound, response.CodeSectionNotFound, err.Error())
	case errors.Is(err, app.ErrEditorClosed):
		response.Error(c, http.StatusConflict, response.CodeEditorClosed, err.Error())
	case errors.Is(err, app.ErrGenerationInFlight):
		response.Error(c, http.StatusConflict, response.CodeGenerationInFlight, err.Error())
	case errors.Is(err, export.ErrSerialize):
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, response.CodeExportFailed, err.Error())
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, fallback)
	}
}

func workspaceIDFromContext(c *gin.Context) (string, bool) {
	id, ok := middleware.WorkspaceID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
	}
	return id, ok
}
