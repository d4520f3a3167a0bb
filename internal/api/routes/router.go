package routes

import (
    "github.com/gin-gonic/gin"
    swaggerFiles "github.com/swaggo/files"
    ginSwagger "github.com/swaggo/gin-swagger"

    "github.com/local/vibedoc/internal/api/handlers"
    "github.com/local/vibedoc/internal/api/middleware"
    "github.com/local/vibedoc/internal/metrics"
)

type Options struct {
    JWTSecret      string
    AllowedOrigins []string
}

// RegisterRoutes mounts health checks, metrics, docs, stored files and the authenticated /api tree.
func RegisterRoutes(r *gin.Engine, h *handlers.Handlers, opts Options) {
    r.Use(middleware.CORS(opts.AllowedOrigins))

    r.GET("/health", h.Health.Health)
    r.GET("/ready", h.Health.Ready)
    r.GET("/metrics", gin.WrapH(metrics.Handler()))
    r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
    // fetched by the remote PDF API, which carries no session
    r.GET("/f/:cloudName", h.File.ServeFile)

    api := r.Group("/api")
    api.Use(middleware.JWTAuth(opts.JWTSecret))
    {
        projects := api.Group("/projects")
        {
            projects.GET("", h.Project.ListProjects)
            projects.POST("", h.Project.CreateProject)
            projects.GET("/:id", h.Project.GetProject)
            projects.PATCH("/:id/name", h.Project.UpdateName)
            projects.PATCH("/:id/system-prompt", h.Project.UpdateSystemPrompt)
            projects.DELETE("/:id", h.Project.DeleteProject)
            projects.GET("/:id/documents", h.Document.ListDocuments)
            projects.POST("/:id/documents", h.Document.UploadDocument)
            projects.POST("/:id/forms", h.Form.UploadForm)
        }
        api.DELETE("/documents/:id", h.Document.DeleteDocument)

        forms := api.Group("/forms")
        {
            forms.GET("/:id", h.Form.GetForm)
            forms.POST("/:id/reprocess", h.Form.ReprocessForm)
            forms.GET("/:id/status", h.Form.FormStatus)
            forms.GET("/:id/download", h.Form.DownloadFilled)
        }
        inputs := api.Group("/inputs")
        {
            inputs.PATCH("", h.Input.UpdateMany)
            inputs.PATCH("/:id", h.Input.UpdateValue)
        }
        pdfTools := api.Group("/pdf")
        {
            pdfTools.POST("/text", h.PDF.ExtractText)
            pdfTools.POST("/fields", h.PDF.ListFields)
            pdfTools.POST("/fill", h.PDF.FillURL)
        }
    }
}
