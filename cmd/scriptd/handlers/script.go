package handlers

import (
	"net/http"
	"strconv"

	"github.com/callready/scriptd/cmd/scriptd/middleware"
	"github.com/callready/scriptd/cmd/scriptd/models"
	"github.com/callready/scriptd/cmd/scriptd/service"
	"github.com/labstack/echo/v4"
)

// ScriptHandler handles script-related requests
type ScriptHandler struct {
	scripts *service.ScriptService
}

// NewScriptHandler creates a new script handler
func NewScriptHandler(scripts *service.ScriptService) *ScriptHandler {
	return &ScriptHandler{scripts: scripts}
}

type createScriptRequest struct {
	Name        string            `json:"name" validate:"required,max=100"`
	Description string            `json:"description"`
	Type        models.ScriptType `json:"type"`
	Tone        models.Tone       `json:"tone"`
	Objective   string            `json:"objective"`
	Industry    string            `json:"industry"`
	Tags        []string          `json:"tags"`
	Content     *models.Content   `json:"content"`
	Settings    map[string]any    `json:"settings"`
	Status      models.Status     `json:"status"`
	UseTemplate bool              `json:"use_template"`
}

// CreateScript creates a new script, optionally seeded from a template
// POST /api/v1/scripts
func (h *ScriptHandler) CreateScript(c echo.Context) error {
	var req createScriptRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	input := &models.Script{
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		Tone:        req.Tone,
		Objective:   req.Objective,
		Industry:    req.Industry,
		Tags:        req.Tags,
		Settings:    req.Settings,
		Status:      req.Status,
	}
	if req.Content != nil {
		input.Content = *req.Content
	}

	script, err := h.scripts.CreateScript(c.Request().Context(), middleware.GetOwner(c), input, req.UseTemplate)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(http.StatusCreated, script)
}

// GetScript retrieves a script by id
// GET /api/v1/scripts/:id
func (h *ScriptHandler) GetScript(c echo.Context) error {
	script, err := h.scripts.GetScript(c.Request().Context(), c.Param("id"), middleware.GetOwner(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, script)
}

// ListScripts lists the owner's scripts with optional filters
// GET /api/v1/scripts?type=call&status=active&order_by=name&order=asc&limit=20&start_after=<id>
func (h *ScriptHandler) ListScripts(c echo.Context) error {
	scripts, err := h.scripts.GetScripts(c.Request().Context(), middleware.GetOwner(c), listFilters(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"scripts": scripts, "count": len(scripts)})
}

// UpdateScript applies a partial update to a script
// PUT /api/v1/scripts/:id
func (h *ScriptHandler) UpdateScript(c echo.Context) error {
	var patch models.UpdatePatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	script, err := h.scripts.UpdateScript(c.Request().Context(), c.Param("id"), middleware.GetOwner(c), patch)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, script)
}

// DeleteScript hard-deletes a script
// DELETE /api/v1/scripts/:id
func (h *ScriptHandler) DeleteScript(c echo.Context) error {
	if err := h.scripts.DeleteScript(c.Request().Context(), c.Param("id"), middleware.GetOwner(c)); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type duplicateScriptRequest struct {
	NewName string `json:"new_name" validate:"omitempty,max=100"`
}

// DuplicateScript creates a lineage-free copy of a script
// POST /api/v1/scripts/:id/duplicate
func (h *ScriptHandler) DuplicateScript(c echo.Context) error {
	var req duplicateScriptRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	script, err := h.scripts.DuplicateScript(c.Request().Context(), c.Param("id"), middleware.GetOwner(c), req.NewName)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, script)
}

// CreateVersion derives a new version of a script
// POST /api/v1/scripts/:id/versions
func (h *ScriptHandler) CreateVersion(c echo.Context) error {
	script, err := h.scripts.CreateVersion(c.Request().Context(), c.Param("id"), middleware.GetOwner(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, script)
}

// GetVersions lists the versions derived from a script, newest first
// GET /api/v1/scripts/:id/versions
func (h *ScriptHandler) GetVersions(c echo.Context) error {
	scripts, err := h.scripts.GetScriptVersions(c.Request().Context(), c.Param("id"), middleware.GetOwner(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"versions": scripts, "count": len(scripts)})
}

// UpdateMetrics merges performance metrics into a script
// POST /api/v1/scripts/:id/metrics
func (h *ScriptHandler) UpdateMetrics(c echo.Context) error {
	var patch models.MetricsPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	script, err := h.scripts.UpdateMetrics(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, script)
}

// SearchScripts filters the owner's scripts by a case-insensitive term
// GET /api/v1/scripts/search?q=demo
func (h *ScriptHandler) SearchScripts(c echo.Context) error {
	scripts, err := h.scripts.SearchScripts(
		c.Request().Context(),
		middleware.GetOwner(c),
		c.QueryParam("q"),
		listFilters(c),
	)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"scripts": scripts, "count": len(scripts)})
}

// GetAnalytics aggregates the owner's scripts
// GET /api/v1/scripts/analytics?range=30d
func (h *ScriptHandler) GetAnalytics(c echo.Context) error {
	analytics, err := h.scripts.GetAnalytics(c.Request().Context(), middleware.GetOwner(c), c.QueryParam("range"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, analytics)
}

type renderScriptRequest struct {
	Values map[string]string `json:"values"`
}

// RenderScript previews a script with placeholder values substituted
// POST /api/v1/scripts/:id/render
func (h *ScriptHandler) RenderScript(c echo.Context) error {
	var req renderScriptRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	script, err := h.scripts.RenderScript(c.Request().Context(), c.Param("id"), middleware.GetOwner(c), req.Values)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"id":      script.ID,
		"content": script.Content,
	})
}

func listFilters(c echo.Context) service.ListFilters {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	return service.ListFilters{
		Type:       models.ScriptType(c.QueryParam("type")),
		Status:     models.Status(c.QueryParam("status")),
		Industry:   c.QueryParam("industry"),
		Objective:  c.QueryParam("objective"),
		OrderBy:    c.QueryParam("order_by"),
		Descending: c.QueryParam("order") != "asc",
		Limit:      limit,
		StartAfter: c.QueryParam("start_after"),
	}
}
