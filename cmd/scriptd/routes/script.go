package routes

import (
	"github.com/callready/scriptd/cmd/scriptd/container"
	"github.com/callready/scriptd/cmd/scriptd/handlers"
	"github.com/callready/scriptd/cmd/scriptd/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterScriptRoutes registers all script-related routes
func RegisterScriptRoutes(e *echo.Echo, c *container.Container) {
	h := handlers.NewScriptHandler(c.ScriptService)

	scripts := e.Group("/api/v1/scripts", middleware.ExtractOwner())
	{
		scripts.POST("", h.CreateScript)           // POST   /api/v1/scripts
		scripts.GET("", h.ListScripts)             // GET    /api/v1/scripts
		scripts.GET("/search", h.SearchScripts)    // GET    /api/v1/scripts/search?q=
		scripts.GET("/analytics", h.GetAnalytics)  // GET    /api/v1/scripts/analytics?range=
		scripts.GET("/:id", h.GetScript)           // GET    /api/v1/scripts/:id
		scripts.PUT("/:id", h.UpdateScript)        // PUT    /api/v1/scripts/:id
		scripts.DELETE("/:id", h.DeleteScript)     // DELETE /api/v1/scripts/:id
		scripts.POST("/:id/duplicate", h.DuplicateScript) // POST /api/v1/scripts/:id/duplicate
		scripts.POST("/:id/versions", h.CreateVersion)    // POST /api/v1/scripts/:id/versions
		scripts.GET("/:id/versions", h.GetVersions)       // GET  /api/v1/scripts/:id/versions
		scripts.POST("/:id/metrics", h.UpdateMetrics)     // POST /api/v1/scripts/:id/metrics
		scripts.POST("/:id/render", h.RenderScript)       // POST /api/v1/scripts/:id/render
	}
}

// RegisterTemplateRoutes registers template catalog routes
func RegisterTemplateRoutes(e *echo.Echo, c *container.Container) {
	h := handlers.NewTemplateHandler(c.Catalog)

	templates := e.Group("/api/v1/templates")
	{
		templates.GET("", h.ListTemplates)                   // GET /api/v1/templates
		templates.GET("/:type/:objective", h.GetTemplate)    // GET /api/v1/templates/call/lead_generation
	}
}
