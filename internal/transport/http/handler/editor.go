package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"labsheet/internal/app"
	"labsheet/internal/export"
	"labsheet/internal/richtext"
	"labsheet/internal/transport/http/response"
)

type EditorHandler struct {
	service *app.LabSheetService
}

func NewEditorHandler(service *app.LabSheetService) *EditorHandler {
	return &EditorHandler{service: service}
}

type EditorView struct {
	Document *richtext.Document `json:"document"`
	Text     string             `json:"text"`
	Fonts    []string           `json:"fonts"`
}

func editorView(doc *richtext.Document) EditorView {
	return EditorView{Document: doc, Text: doc.PlainText(), Fonts: richtext.Fonts}
}

func (h *EditorHandler) Open(c *gin.Context) {
	id, ok := workspaceIDFromContext(c)
	if !ok {
		return
	}
	doc, err := h.service.OpenEditor(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "open editor failed")
		return
	}
	response.OK(c, editorView(doc))
}

func (h *EditorHandler) Get(c *gin.Context) {
	id, ok := workspaceIDFromContext(c)
	if !ok {
		return
	}
	doc, err := h.service.EditorState(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "load editor failed")
		return
	}
	response.OK(c, editorView(doc))
}

func (h *EditorHandler) Command(c *gin.Context) {
	id, ok := workspaceIDFromContext(c)
	if !ok {
		return
	}

	var cmd richtext.Command
	if err := c.ShouldBindJSON(&cmd); err != nil || cmd.Name == "" {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	doc, err := h.service.ApplyEditorCommand(c.Request.Context(), id, cmd)
	if err != nil {
		writeError(c, err, "apply editor command failed")
		return
	}
	response.OK(c, editorView(doc))
}

func (h *EditorHandler) Export(c *gin.Context) {
	id, ok := workspaceIDFromContext(c)
	if !ok {
		return
	}
	file, err := h.service.ExportEditor(c.Request.Context(), id, export.Format(c.Param("format")))
	sendExport(c, file, err)
}
