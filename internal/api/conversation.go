package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ml-course-assistant/backend/internal/conversation"
	"ml-course-assistant/backend/pkg/config"
	"ml-course-assistant/backend/pkg/errors"
)

// ConversationController handles conversation read/write endpoints
type ConversationController struct {
	store *conversation.Store
}

// NewConversationController creates a new conversation controller
func NewConversationController(store *conversation.Store) *ConversationController {
	return &ConversationController{store: store}
}

// RegisterRoutes registers the conversation routes on the given group
func (c *ConversationController) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/conversations", c.Create)
	group.GET("/conversations", c.List)
	group.GET("/conversations/:id", c.Get)
	group.DELETE("/conversations/:id", c.Delete)
	group.GET("/conversations/:id/messages", c.Messages)
	group.GET("/conversations/:id/search", c.Search)
	group.GET("/conversations/:id/stats", c.Stats)
	group.GET("/conversations/:id/export", c.Export)
	group.GET("/search", c.SearchAll)
}

type createConversationRequest struct {
	UserID     string `json:"userId"`
	CourseCode string `json:"courseCode"`
	ModuleName string `json:"moduleName"`
}

// Create registers a new conversation and returns its id
func (c *ConversationController) Create(ctx *gin.Context) {
	var req createConversationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.Error(errors.NewBadRequestError("INVALID_BODY", "Request body must be valid JSON"))
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		ctx.Error(errors.NewBadRequestError("USER_ID_REQUIRED", "User ID is required"))
		return
	}
	if strings.TrimSpace(req.CourseCode) == "" {
		req.CourseCode = config.Get().Course.DefaultCode
	}

	id := c.store.Create(req.UserID, req.CourseCode, req.ModuleName)
	conv, _ := c.store.Get(id)
	ctx.JSON(http.StatusCreated, gin.H{"conversationId": id, "conversation": conv})
}

// List returns all conversations owned by the user in the userId query param
func (c *ConversationController) List(ctx *gin.Context) {
	userID := ctx.Query("userId")
	if userID == "" {
		ctx.Error(errors.NewBadRequestError("USER_ID_REQUIRED", "userId query parameter is required"))
		return
	}

	convs := c.store.ListByUser(userID)
	ctx.JSON(http.StatusOK, gin.H{"conversations": convs, "count": len(convs)})
}

// Get returns one conversation's metadata
func (c *ConversationController) Get(ctx *gin.Context) {
	conv, ok := c.store.Get(ctx.Param("id"))
	if !ok {
		ctx.Error(errors.NewNotFoundError("CONVERSATION_NOT_FOUND", "Conversation not found"))
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"conversation": conv})
}

// Delete removes a conversation and its messages. Always succeeds.
func (c *ConversationController) Delete(ctx *gin.Context) {
	c.store.Delete(ctx.Param("id"))
	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

// Messages returns the conversation's messages in chronological order
func (c *ConversationController) Messages(ctx *gin.Context) {
	id := ctx.Param("id")
	if _, ok := c.store.Get(id); !ok {
		ctx.Error(errors.NewNotFoundError("CONVERSATION_NOT_FOUND", "Conversation not found"))
		return
	}
	msgs := c.store.Messages(id)
	ctx.JSON(http.StatusOK, gin.H{"messages": msgs, "count": len(msgs)})
}

// Search finds messages containing the q parameter within one conversation
func (c *ConversationController) Search(ctx *gin.Context) {
	keyword := ctx.Query("q")
	if keyword == "" {
		ctx.Error(errors.NewBadRequestError("QUERY_REQUIRED", "q query parameter is required"))
		return
	}

	matches := c.store.SearchInConversation(ctx.Param("id"), keyword)
	ctx.JSON(http.StatusOK, gin.H{"messages": matches, "matchCount": len(matches)})
}

// SearchAll runs a keyword search across all of a user's conversations
func (c *ConversationController) SearchAll(ctx *gin.Context) {
	userID := ctx.Query("userId")
	keyword := ctx.Query("q")
	if userID == "" || keyword == "" {
		ctx.Error(errors.NewBadRequestError("QUERY_REQUIRED", "userId and q query parameters are required"))
		return
	}

	results := c.store.SearchAllForUser(userID, keyword)
	ctx.JSON(http.StatusOK, gin.H{"results": results, "count": len(results)})
}

// Stats returns the conversation's derived statistics
func (c *ConversationController) Stats(ctx *gin.Context) {
	stats, ok := c.store.Stats(ctx.Param("id"))
	if !ok {
		ctx.Error(errors.NewNotFoundError("CONVERSATION_NOT_FOUND", "Conversation not found"))
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"stats": stats})
}

// Export returns the conversation as JSON (default) or plain text when
// format=text is passed
func (c *ConversationController) Export(ctx *gin.Context) {
	id := ctx.Param("id")

	if ctx.Query("format") == "text" {
		text, ok := c.store.ExportText(id)
		if !ok {
			ctx.Error(errors.NewNotFoundError("CONVERSATION_NOT_FOUND", "Conversation not found"))
			return
		}
		ctx.String(http.StatusOK, text)
		return
	}

	export, ok := c.store.ExportStructured(id)
	if !ok {
		ctx.Error(errors.NewNotFoundError("CONVERSATION_NOT_FOUND", "Conversation not found"))
		return
	}
	ctx.JSON(http.StatusOK, export)
}
