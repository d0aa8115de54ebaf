package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"sentiment-chat-demo/backend/internal/models"
	"sentiment-chat-demo/backend/internal/service"
	apperrors "sentiment-chat-demo/backend/pkg/errors"
)

// UserController handles user directory endpoints
type UserController struct {
	userService *service.UserService
}

// NewUserController creates a new user controller
func NewUserController(userService *service.UserService) *UserController {
	return &UserController{userService: userService}
}

// RegisterRoutes registers the routes for the user controller
func (c *UserController) RegisterRoutes(router *gin.Engine) {
	userGroup := router.Group("/api/users")
	{
		userGroup.POST("", c.CreateUser)
		userGroup.GET("/by-nickname", c.GetByNickname)
	}
}

// RegisterRoutesV1 registers the versioned routes
func (c *UserController) RegisterRoutesV1(v1 *gin.RouterGroup) {
	userGroup := v1.Group("/users")
	{
		userGroup.POST("", c.CreateUser)
		userGroup.GET("/by-nickname", c.GetByNickname)
	}
}

// CreateUser returns the existing user for the nickname or creates a new
// one. Creation is idempotent across case-variants of the same nickname.
func (c *UserController) CreateUser(ctx *gin.Context) {
	var request models.CreateUserRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.Error(apperrors.NewInvalidArgumentError("INVALID_REQUEST", "Invalid request format"))
		return
	}

	user, err := c.userService.CreateUser(ctx.Request.Context(), request.Nickname)
	if err != nil {
		ctx.Error(mapUserError(err))
		return
	}

	ctx.JSON(http.StatusOK, user)
}

// GetByNickname looks up a user by case-insensitive nickname match
func (c *UserController) GetByNickname(ctx *gin.Context) {
	user, err := c.userService.GetByNickname(ctx.Request.Context(), ctx.Query("nickname"))
	if err != nil {
		ctx.Error(mapUserError(err))
		return
	}

	ctx.JSON(http.StatusOK, user)
}

func mapUserError(err error) *apperrors.AppError {
	switch {
	case errors.Is(err, service.ErrInvalidNickname):
		return apperrors.NewInvalidArgumentError("INVALID_NICKNAME", "Nickname must be 2..20 chars.")
	case errors.Is(err, service.ErrUserNotFound):
		return apperrors.NewNotFoundError("USER_NOT_FOUND", "No user with that nickname")
	default:
		return apperrors.NewStoreError("Failed to access user directory")
	}
}
