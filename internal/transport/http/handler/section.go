package handler

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"labsheet/internal/app"
	"labsheet/internal/document"
	"labsheet/internal/transport/http/response"
)

type SectionHandler struct {
	service *app.LabSheetService
}

type AddSectionRequest struct {
	Name string `json:"name" binding:"required,max=128"`
}

type UpdateSectionRequest struct {
	Name    *string `json:"name" binding:"omitempty,max=128"`
	Content *string `json:"content"`
}

type MoveSectionRequest struct {
	To *int `json:"to" binding:"required,gte=0"`
}

func NewSectionHandler(service *app.LabSheetService) *SectionHandler {
	return &SectionHandler{service: service}
}

func (h *SectionHandler) Add(c *gin.Context) {
	id, ok := workspaceIDFromContext(c)
	if !ok {
		return
	}

	var req AddSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	section, err := h.service.AddSection(c.Request.Context(), id, req.Name)
	if err != nil {
		writeError(c, err, "add section failed")
		return
	}
	response.OK(c, section)
}

func (h *SectionHandler) Update(c *gin.Context) {
	id, ok := workspaceIDFromContext(c)
	if !ok {
		return
	}

	var req UpdateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	section, err := h.service.UpdateSection(c.Request.Context(), id, c.Param("id"), document.SectionPatch{
		Name:    req.Name,
		Content: req.Content,
	})
	if err != nil {
		writeError(c, err, "update section failed")
		return
	}
	response.OK(c, section)
}

func (h *SectionHandler) Remove(c *gin.Context) {
	id, ok := workspaceIDFromContext(c)
	if !ok {
		return
	}
	sectionID := c.Param("id")
	if err := h.service.RemoveSection(c.Request.Context(), id, sectionID); err != nil {
		writeError(c, err, "remove section failed")
		return
	}
	response.OK(c, gin.H{"deleted_section_id": sectionID})
}

func (h *SectionHandler) Move(c *gin.Context) {
	id, ok := workspaceIDFromContext(c)
	if !ok {
		return
	}

	var req MoveSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	sections, err := h.service.MoveSection(c.Request.Context(), id, c.Param("id"), *req.To)
	if err != nil {
		writeError(c, err, "move section failed")
		return
	}
	response.OK(c, sections)
}

// AttachImages accepts a multipart form with one or more "images" files.
func (h *SectionHandler) AttachImages(c *gin.Context) {
	id, ok := workspaceIDFromContext(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil || len(form.File["images"]) == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing image files (form field 'images')")
		return
	}

	files := form.File["images"]
	sources := make([]document.ImageSource, len(files))
	for i, fh := range files {
		sources[i] = uploadedFile{fh}
	}

	section, err := h.service.AttachImages(c.Request.Context(), id, c.Param("id"), sources)
	if err != nil {
		writeError(c, err, "attach images failed")
		return
	}
	response.OK(c, section)
}

func (h *SectionHandler) RemoveImage(c *gin.Context) {
	id, ok := workspaceIDFromContext(c)
	if !ok {
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid image index")
		return
	}

	section, err := h.service.RemoveImage(c.Request.Context(), id, c.Param("id"), index)
	if err != nil {
		writeError(c, err, "remove image failed")
		return
	}
	response.OK(c, section)
}

type uploadedFile struct {
	fh *multipart.FileHeader
}

func (u uploadedFile) Name() string        { return u.fh.Filename }
func (u uploadedFile) ContentType() string { return u.fh.Header.Get("Content-Type") }
func (u uploadedFile) Open() (io.ReadCloser, error) {
	return u.fh.Open()
}
