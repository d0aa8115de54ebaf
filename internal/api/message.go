package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"sentiment-chat-demo/backend/internal/models"
	"sentiment-chat-demo/backend/internal/service"
	apperrors "sentiment-chat-demo/backend/pkg/errors"
)

// MessageController handles message submission and retrieval endpoints
type MessageController struct {
	messageService *service.MessageService
}

// NewMessageController creates a new message controller
func NewMessageController(messageService *service.MessageService) *MessageController {
	return &MessageController{messageService: messageService}
}

// RegisterRoutes registers the routes for the message controller
func (c *MessageController) RegisterRoutes(router *gin.Engine) {
	msgGroup := router.Group("/api/messages")
	{
		msgGroup.GET("", c.ListMessages)
		msgGroup.POST("", c.PostMessage)
	}
}

// RegisterRoutesV1 registers the versioned routes
func (c *MessageController) RegisterRoutesV1(v1 *gin.RouterGroup) {
	msgGroup := v1.Group("/messages")
	{
		msgGroup.GET("", c.ListMessages)
		msgGroup.POST("", c.PostMessage)
	}
}

// PostMessage submits a new message. The response carries the stored record
// with its final sentiment state: enriched when the classifier answered in
// time, defaults when it did not. Classifier trouble never fails the request.
func (c *MessageController) PostMessage(ctx *gin.Context) {
	var request models.PostMessageRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.Error(apperrors.NewInvalidArgumentError("INVALID_REQUEST", "Invalid request format"))
		return
	}

	msg, err := c.messageService.Post(ctx.Request.Context(), request.UserID, request.Text)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidUserID):
			ctx.Error(apperrors.NewInvalidArgumentError("INVALID_USER_ID", "invalid userId"))
		case errors.Is(err, service.ErrTextRequired):
			ctx.Error(apperrors.NewInvalidArgumentError("TEXT_REQUIRED", "text required"))
		default:
			ctx.Error(apperrors.NewStoreError("Failed to store message"))
		}
		return
	}

	ctx.JSON(http.StatusOK, msg.ToResponse())
}

// ListMessages returns messages ordered by creation time then id. Optional
// query parameters: since (RFC3339 timestamp, strictly-greater filter) and
// limit (earliest qualifying messages first).
func (c *MessageController) ListMessages(ctx *gin.Context) {
	var since *time.Time
	if raw := ctx.Query("since"); raw != "" {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			ctx.Error(apperrors.NewInvalidArgumentError("INVALID_SINCE", "since must be an RFC3339 timestamp"))
			return
		}
		since = &t
	}

	limit := 0
	if raw := ctx.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			ctx.Error(apperrors.NewInvalidArgumentError("INVALID_LIMIT", "limit must be a non-negative integer"))
			return
		}
		// An explicit zero means "at most zero messages", not "no limit"
		if n == 0 {
			ctx.JSON(http.StatusOK, []models.MessageResponse{})
			return
		}
		limit = n
	}

	messages, err := c.messageService.List(ctx.Request.Context(), since, limit)
	if err != nil {
		ctx.Error(apperrors.NewStoreError("Failed to list messages"))
		return
	}

	ctx.JSON(http.StatusOK, messages)
}
