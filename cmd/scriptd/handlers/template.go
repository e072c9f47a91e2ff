package handlers

import (
	"net/http"

	"github.com/callready/scriptd/cmd/scriptd/catalog"
	"github.com/callready/scriptd/cmd/scriptd/models"
	"github.com/labstack/echo/v4"
)

// TemplateHandler serves the read-only template catalog
type TemplateHandler struct {
	catalog *catalog.Catalog
}

// NewTemplateHandler creates a new template handler
func NewTemplateHandler(cat *catalog.Catalog) *TemplateHandler {
	return &TemplateHandler{catalog: cat}
}

// ListTemplates lists every (type, objective) pair the catalog covers
// GET /api/v1/templates
func (h *TemplateHandler) ListTemplates(c echo.Context) error {
	pairs := h.catalog.Pairs()
	out := make([]map[string]string, 0, len(pairs))
	for _, pair := range pairs {
		out = append(out, map[string]string{
			"type":      pair[0],
			"objective": pair[1],
		})
	}
	return c.JSON(http.StatusOK, map[string]any{"templates": out, "count": len(out)})
}

// GetTemplate returns the seed content for a (type, objective) pair
// GET /api/v1/templates/:type/:objective
func (h *TemplateHandler) GetTemplate(c echo.Context) error {
	scriptType := models.ScriptType(c.Param("type"))
	objective := c.Param("objective")

	tpl, ok := h.catalog.Get(scriptType, objective)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]any{
			"error": "no template for this type and objective",
		})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"type":      scriptType,
		"objective": objective,
		"content":   tpl,
	})
}
