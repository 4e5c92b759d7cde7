package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"labsheet/internal/app"
	"labsheet/internal/export"
	"labsheet/internal/transport/http/response"
)

type GenerationHandler struct {
	service *app.LabSheetService
}

// GenerateRequest carries the key for this call only; it is never stored.
type GenerateRequest struct {
	APIKey string `json:"api_key"`
}

func NewGenerationHandler(service *app.LabSheetService) *GenerationHandler {
	return &GenerationHandler{service: service}
}

func (h *GenerationHandler) Generate(c *gin.Context) {
	id, ok := workspaceIDFromContext(c)
	if !ok {
		return
	}

	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.service.Generate(c.Request.Context(), id, req.APIKey)
	if err != nil {
		writeError(c, err, "generate lab sheet failed")
		return
	}
	response.OK(c, result)
}

func (h *GenerationHandler) Output(c *gin.Context) {
	id, ok := workspaceIDFromContext(c)
	if !ok {
		return
	}
	view, err := h.service.Output(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "load output failed")
		return
	}
	response.OK(c, view)
}

func (h *GenerationHandler) Export(c *gin.Context) {
	id, ok := workspaceIDFromContext(c)
	if !ok {
		return
	}
	file, err := h.service.ExportOutput(c.Request.Context(), id, export.Format(c.Param("format")))
	sendExport(c, file, err)
}

// sendExport streams a file, or answers 204 when there was nothing to export.
func sendExport(c *gin.Context, file *app.ExportFile, err error) {
	if errors.Is(err, export.ErrNothingToExport) {
		c.Status(http.StatusNoContent)
		return
	}
	if err != nil {
		writeError(c, err, "export failed")
		return
	}
	response.Attachment(c, file.Filename, file.MimeType, file.Data)
}
