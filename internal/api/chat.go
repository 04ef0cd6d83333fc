package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ml-course-assistant/backend/internal/service"
	"ml-course-assistant/backend/pkg/config"
	"ml-course-assistant/backend/pkg/errors"
)

// ChatController handles the chat endpoint
type ChatController struct {
	chatService *service.ChatService
}

// NewChatController creates a new chat controller
func NewChatController(chatService *service.ChatService) *ChatController {
	return &ChatController{chatService: chatService}
}

// RegisterRoutes registers the chat routes on the given group
func (c *ChatController) RegisterRoutes(group *gin.RouterGroup, extra ...gin.HandlerFunc) {
	handlers := append(extra, c.Send)
	group.POST("/chat", handlers...)
}

// Send handles one chat turn. Structurally invalid requests (missing message
// or user id) are rejected here; upstream LLM failures come back as a 200
// with success=false and a classified error, matching the frontend contract.
func (c *ChatController) Send(ctx *gin.Context) {
	var req service.ChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.Error(errors.NewBadRequestError("INVALID_BODY", "Request body must be valid JSON"))
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		ctx.Error(errors.NewBadRequestError("MESSAGE_REQUIRED", "Message is required"))
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		ctx.Error(errors.NewBadRequestError("USER_ID_REQUIRED", "User ID is required"))
		return
	}
	if strings.TrimSpace(req.CourseCode) == "" {
		req.CourseCode = config.Get().Course.DefaultCode
	}

	resp := c.chatService.Send(ctx.Request.Context(), req)
	ctx.JSON(http.StatusOK, resp)
}
