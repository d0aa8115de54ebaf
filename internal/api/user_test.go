package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"sentiment-chat-demo/backend/internal/models"
	"sentiment-chat-demo/backend/internal/repository"
	"sentiment-chat-demo/backend/internal/service"
	apperrors "sentiment-chat-demo/backend/pkg/errors"
	"sentiment-chat-demo/backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Output: io.Discard})
}

func newUserTestEngine(repo repository.UserRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)

	log := testLogger()
	router := gin.New()
	router.Use(logger.Middleware(log))
	router.Use(apperrors.ErrorHandler())

	userService := service.NewUserService(repo, nil, log)
	NewUserController(userService).RegisterRoutes(router)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeErrorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.Error.Code
}

func TestCreateUserEndpoint(t *testing.T) {
	mockRepo := &repository.MockUserRepository{}
	defer mockRepo.AssertExpectations(t)

	mockRepo.On("GetByNickname", mock.Anything, "Ada").Return(nil, gorm.ErrRecordNotFound).Once()
	mockRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*models.User).ID = 1
	}).Return(nil).Once()

	router := newUserTestEngine(mockRepo)
	w := postJSON(t, router, "/api/users", models.CreateUserRequest{Nickname: "Ada"})

	require.Equal(t, http.StatusOK, w.Code)

	var user models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	assert.Equal(t, uint(1), user.ID)
	assert.Equal(t, "Ada", user.Nickname)
}

func TestCreateUserEndpointReturnsExistingForCaseVariant(t *testing.T) {
	existing := &models.User{ID: 1, Nickname: "Ada"}

	mockRepo := &repository.MockUserRepository{}
	defer mockRepo.AssertExpectations(t)

	mockRepo.On("GetByNickname", mock.Anything, "ADA").Return(existing, nil).Once()

	router := newUserTestEngine(mockRepo)
	w := postJSON(t, router, "/api/users", models.CreateUserRequest{Nickname: "ADA"})

	require.Equal(t, http.StatusOK, w.Code)

	var user models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	assert.Equal(t, uint(1), user.ID)
	assert.Equal(t, "Ada", user.Nickname)
}

func TestCreateUserEndpointRejectsBadNickname(t *testing.T) {
	router := newUserTestEngine(&repository.MockUserRepository{})

	for _, nickname := range []string{"", "a", "   a  ", "abcdefghijklmnopqrstu"} {
		w := postJSON(t, router, "/api/users", models.CreateUserRequest{Nickname: nickname})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_NICKNAME", decodeErrorCode(t, w))
	}
}

func TestCreateUserEndpointMalformedBody(t *testing.T) {
	router := newUserTestEngine(&repository.MockUserRepository{})

	req := httptest.NewRequest(http.MethodPost, "/api/users", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_REQUEST", decodeErrorCode(t, w))
}

func TestCreateUserEndpointStoreFailure(t *testing.T) {
	mockRepo := &repository.MockUserRepository{}
	defer mockRepo.AssertExpectations(t)

	mockRepo.On("GetByNickname", mock.Anything, "Ada").Return(nil, gorm.ErrInvalidDB).Once()

	router := newUserTestEngine(mockRepo)
	w := postJSON(t, router, "/api/users", models.CreateUserRequest{Nickname: "Ada"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "STORE_FAILURE", decodeErrorCode(t, w))
}

func TestGetByNicknameEndpoint(t *testing.T) {
	existing := &models.User{ID: 4, Nickname: "grace"}

	mockRepo := &repository.MockUserRepository{}
	defer mockRepo.AssertExpectations(t)

	mockRepo.On("GetByNickname", mock.Anything, "GRACE").Return(existing, nil).Once()

	router := newUserTestEngine(mockRepo)

	req := httptest.NewRequest(http.MethodGet, "/api/users/by-nickname?nickname=GRACE", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var user models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	assert.Equal(t, uint(4), user.ID)
}

func TestGetByNicknameEndpointNotFound(t *testing.T) {
	mockRepo := &repository.MockUserRepository{}
	defer mockRepo.AssertExpectations(t)

	mockRepo.On("GetByNickname", mock.Anything, "nobody").Return(nil, gorm.ErrRecordNotFound).Once()

	router := newUserTestEngine(mockRepo)

	req := httptest.NewRequest(http.MethodGet, "/api/users/by-nickname?nickname=nobody", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "USER_NOT_FOUND", decodeErrorCode(t, w))
}
