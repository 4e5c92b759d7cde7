package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"labsheet/internal/app"
	"labsheet/internal/transport/http/response"
)

type TemplateHandler struct {
	service *app.LabSheetService
}

func NewTemplateHandler(service *app.LabSheetService) *TemplateHandler {
	return &TemplateHandler{service: service}
}

// Upload records a "template" file for display. The content is discarded.
func (h *TemplateHandler) Upload(c *gin.Context) {
	id, ok := workspaceIDFromContext(c)
	if !ok {
		return
	}

	file, err := c.FormFile("template")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing template file (form field 'template')")
		return
	}

	info, err := h.service.UploadTemplate(c.Request.Context(), id, file.Filename, file.Header.Get("Content-Type"), file.Size)
	if err != nil {
		writeError(c, err, "upload template failed")
		return
	}
	response.OK(c, info)
}

func (h *TemplateHandler) Remove(c *gin.Context) {
	id, ok := workspaceIDFromContext(c)
	if !ok {
		return
	}
	if err := h.service.RemoveTemplate(c.Request.Context(), id); err != nil {
		writeError(c, err, "remove template failed")
		return
	}
	response.OK(c, gin.H{"template": nil})
}
