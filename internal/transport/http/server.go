package http

import (
	"path/filepath"

	"github.com/gin-gonic/gin"

	appsvc "labsheet/internal/app"
	"labsheet/internal/bootstrap"
	"labsheet/internal/transport/http/handler"
	"labsheet/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(middleware.RequestLogger(app.Logger), gin.Recovery())

	service := appsvc.NewLabSheetService(app.Store, app.Generator, app.Logger, appsvc.ServiceOptions{
		DefaultAPIKey:     app.Config.Generation.APIKey,
		DefaultModel:      app.Config.Generation.Model,
		GenerationTimeout: app.Config.GenerationTimeout(),
	})

	healthHandler := handler.NewHealthHandler(app)
	router.StaticFile("/", filepath.Join(app.Config.App.WebRoot, "index.html"))
	router.GET("/healthz", healthHandler.Check)

	workspaceHandler := handler.NewWorkspaceHandler(service, app.Config.Session.Secret, app.Config.SessionTTL())
	sectionHandler := handler.NewSectionHandler(service)
	generationHandler := handler.NewGenerationHandler(service)
	editorHandler := handler.NewEditorHandler(service)
	templateHandler := handler.NewTemplateHandler(service)

	v1 := router.Group("/api/v1")
	v1.POST("/workspaces", workspaceHandler.Create)

	wsGroup := v1.Group("/workspace")
	wsGroup.Use(middleware.AuthWorkspace(app.Config.Session.Secret))
	wsGroup.GET("", workspaceHandler.Get)
	wsGroup.PUT("/form", workspaceHandler.UpdateForm)
	wsGroup.GET("/prompt", workspaceHandler.Prompt)

	wsGroup.POST("/sections", sectionHandler.Add)
	wsGroup.PATCH("/sections/:id", sectionHandler.Update)
	wsGroup.DELETE("/sections/:id", sectionHandler.Remove)
	wsGroup.POST("/sections/:id/move", sectionHandler.Move)
	wsGroup.POST("/sections/:id/images", sectionHandler.AttachImages)
	wsGroup.DELETE("/sections/:id/images/:index", sectionHandler.RemoveImage)

	wsGroup.POST("/generate", generationHandler.Generate)
	wsGroup.GET("/output", generationHandler.Output)
	wsGroup.GET("/output/export/:format", generationHandler.Export)

	wsGroup.POST("/editor", editorHandler.Open)
	wsGroup.GET("/editor", editorHandler.Get)
	wsGroup.POST("/editor/commands", editorHandler.Command)
	wsGroup.GET("/editor/export/:format", editorHandler.Export)

	wsGroup.POST("/template", templateHandler.Upload)
	wsGroup.DELETE("/template", templateHandler.Remove)

	return router
}
