package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"labsheet/internal/app"
	"labsheet/internal/model"
	"labsheet/internal/pkg/jwtutil"
	"labsheet/internal/transport/http/response"
)

type WorkspaceHandler struct {
	service  *app.LabSheetService
	secret   string
	tokenTTL time.Duration
}

type UpdateFormRequest struct {
	Subject      *string `json:"subject" binding:"omitempty,max=200"`
	Experiment   *string `json:"experiment" binding:"omitempty,max=200"`
	Model        *string `json:"model"`
	CustomPrompt *string `json:"custom_prompt"`
}

type CreateWorkspaceResponse struct {
	Token     string              `json:"token"`
	Workspace *model.Workspace    `json:"workspace"`
	Models    []model.ModelOption `json:"models"`
}

func NewWorkspaceHandler(service *app.LabSheetService, secret string, tokenTTL time.Duration) *WorkspaceHandler {
	return &WorkspaceHandler{service: service, secret: secret, tokenTTL: tokenTTL}
}

func (h *WorkspaceHandler) Create(c *gin.Context) {
	ws, err := h.service.CreateWorkspace(c.Request.Context())
	if err != nil {
		writeError(c, err, "create workspace failed")
		return
	}

	token, err := jwtutil.GenerateToken(h.secret, h.tokenTTL, ws.ID)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "issue token failed")
		return
	}

	response.OK(c, CreateWorkspaceResponse{Token: token, Workspace: ws, Models: model.Models})
}

func (h *WorkspaceHandler) Get(c *gin.Context) {
	id, ok := workspaceIDFromContext(c)
	if !ok {
		return
	}
	ws, err := h.service.GetWorkspace(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "load workspace failed")
		return
	}
	response.OK(c, ws)
}

func (h *WorkspaceHandler) UpdateForm(c *gin.Context) {
	id, ok := workspaceIDFromContext(c)
	if !ok {
		return
	}

	var req UpdateFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	ws, err := h.service.UpdateForm(c.Request.Context(), id, app.FormInput{
		Subject:      req.Subject,
		Experiment:   req.Experiment,
		Model:        req.Model,
		CustomPrompt: req.CustomPrompt,
	})
	if err != nil {
		writeError(c, err, "update form failed")
		return
	}
	response.OK(c, ws.Form)
}

func (h *WorkspaceHandler) Prompt(c *gin.Context) {
	id, ok := workspaceIDFromContext(c)
	if !ok {
		return
	}
	prompt, err := h.service.BuildPrompt(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "build prompt failed")
		return
	}
	response.OK(c, gin.H{"prompt": prompt})
}
