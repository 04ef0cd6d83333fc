// Package health runs named component checks and reports an aggregate status
// for the /health endpoint.
package health

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"ml-course-assistant/backend/pkg/logger"
)

// Status represents the health status of a component
type Status string

const (
	// StatusUp indicates a component is working correctly
	StatusUp Status = "up"
	// StatusDown indicates a component is not working
	StatusDown Status = "down"
	// StatusDegraded indicates a component is working but with reduced functionality
	StatusDegraded Status = "degraded"
)

// Component represents a system component that can be health-checked
type Component struct {
	Name        string    `json:"name"`
	Status      Status    `json:"status"`
	Description string    `json:"description,omitempty"`
	Error       string    `json:"error,omitempty"`
	LastChecked time.Time `json:"last_checked"`
}

// Check represents a health check function
type Check func() (Status, string, error)

// Checker manages health checks for the system
type Checker struct {
	mu        sync.RWMutex
	checks    map[string]Check
	order     []string
	startTime time.Time
	log       *logger.Logger
}

// NewChecker creates a checker with no registered checks
func NewChecker(log *logger.Logger) *Checker {
	return &Checker{
		checks:    make(map[string]Check),
		startTime: time.Now(),
		log:       log,
	}
}

// Register adds a named check. Re-registering a name replaces the check.
func (c *Checker) Register(name string, check Check) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.checks[name]; !exists {
		c.order = append(c.order, name)
	}
	c.checks[name] = check
}

// Run executes all checks and returns the component reports plus the
// aggregate status: down if any component is down, degraded if any is
// degraded, up otherwise.
func (c *Checker) Run() (Status, []Component) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	overall := StatusUp
	components := make([]Component, 0, len(c.order))

	for _, name := range c.order {
		status, desc, err := c.checks[name]()
		comp := Component{
			Name:        name,
			Status:      status,
			Description: desc,
			LastChecked: time.Now(),
		}
		if err != nil {
			comp.Error = err.Error()
			c.log.Warn("health check failed", "component", name, "error", err.Error())
		}
		components = append(components, comp)

		switch status {
		case StatusDown:
			overall = StatusDown
		case StatusDegraded:
			if overall == StatusUp {
				overall = StatusDegraded
			}
		}
	}

	return overall, components
}

// Handler returns a gin handler serving the health report. A down status maps
// to 503 so load balancers can act on it.
func (c *Checker) Handler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		overall, components := c.Run()

		code := http.StatusOK
		if overall == StatusDown {
			code = http.StatusServiceUnavailable
		}

		ctx.JSON(code, gin.H{
			"status":     overall,
			"components": components,
			"uptime":     time.Since(c.startTime).String(),
			"timestamp":  time.Now(),
		})
	}
}
