package response

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	CodeOK                 = 0
	CodeBadRequest         = 40000
	CodeMissingAPIKey      = 40001
	CodeInvalidModel       = 40002
	CodeUnsupportedFile    = 40003
	CodeUnsupportedFormat  = 40004
	CodeUnauthorized       = 40100
	CodeWorkspaceNotFound  = 40401
	CodeSectionNotFound    = 40402
	CodeEditorClosed       = 40901
	CodeGenerationInFlight = 40902
	CodeInternalServer     = 50000
	CodeExportFailed       = 50001
)

type APIResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Code:    CodeOK,
		Message: "ok",
		Data:    data,
	})
}

func Error(c *gin.Context, httpStatus, code int, message string) {
	c.JSON(httpStatus, APIResponse{
		Code:    code,
		Message: message,
	})
}

// Attachment sends data as a download under a fixed filename.
func Attachment(c *gin.Context, filename, mimeType string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, mimeType, data)
}
