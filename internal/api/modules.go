package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ml-course-assistant/backend/internal/prompts"
)

// ModulesController exposes the registered course module keys
type ModulesController struct {
	registry *prompts.Registry
}

// NewModulesController creates a new modules controller
func NewModulesController(registry *prompts.Registry) *ModulesController {
	return &ModulesController{registry: registry}
}

// RegisterRoutes registers the module routes on the given group
func (c *ModulesController) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/modules", c.List)
}

// List returns all module keys in registration order
func (c *ModulesController) List(ctx *gin.Context) {
	keys := c.registry.ModuleKeys()
	ctx.JSON(http.StatusOK, gin.H{"modules": keys, "count": len(keys)})
}
