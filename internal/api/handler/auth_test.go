package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiffinbox/tiffin_go_server/config"
	"github.com/tiffinbox/tiffin_go_server/internal/model/dto"
	"github.com/tiffinbox/tiffin_go_server/internal/pkg/response"
	"github.com/tiffinbox/tiffin_go_server/internal/repository"
	"github.com/tiffinbox/tiffin_go_server/internal/service"
	"github.com/tiffinbox/tiffin_go_server/internal/testutil"
)

func setupAuthHandler(t *testing.T) (*AuthHandler, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)

	cfg := &config.Config{
		JWT: config.JWTConfig{
			Secret:      "test-secret-key",
			ExpireHours: 24,
		},
	}

	authService := service.NewAuthService(
		repository.NewUserRepository(db),
		repository.NewNotificationRepository(db),
		nil,
		cfg,
	)
	handler := NewAuthHandler(authService)

	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}

	return handler, cleanup
}

func TestAuthHandler_Register_Success(t *testing.T) {
	handler, cleanup := setupAuthHandler(t)
	defer cleanup()

	router := gin.New()
	router.POST("/register", handler.Register)

	req := dto.RegisterRequest{
		Name:     "Rahul Sharma",
		Phone:    "9876543210",
		Email:    "rahul@example.com",
		Password: "password123",
	}

	w := performRequest(router, "POST", "/register", req)
	resp := parseResponse(t, w)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, response.CodeSuccess, resp.Code)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, data["token"])
}

func TestAuthHandler_Register_InvalidEmail(t *testing.T) {
	handler, cleanup := setupAuthHandler(t)
	defer cleanup()

	router := gin.New()
	router.POST("/register", handler.Register)

	req := dto.RegisterRequest{
		Name:     "Rahul Sharma",
		Phone:    "9876543210",
		Email:    "not-an-email",
		Password: "password123",
	}

	w := performRequest(router, "POST", "/register", req)
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeParamError, resp.Code)
}

func TestAuthHandler_Register_Duplicate(t *testing.T) {
	handler, cleanup := setupAuthHandler(t)
	defer cleanup()

	router := gin.New()
	router.POST("/register", handler.Register)

	req := dto.RegisterRequest{
		Name:     "Rahul Sharma",
		Phone:    "9876543210",
		Email:    "rahul@example.com",
		Password: "password123",
	}

	w := performRequest(router, "POST", "/register", req)
	require.Equal(t, response.CodeSuccess, parseResponse(t, w).Code)

	w = performRequest(router, "POST", "/register", req)
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeParamError, resp.Code)
	assert.Equal(t, "User with this phone or email already exists", resp.Message)
}

func TestAuthHandler_Login(t *testing.T) {
	handler, cleanup := setupAuthHandler(t)
	defer cleanup()

	router := gin.New()
	router.POST("/register", handler.Register)
	router.POST("/login", handler.Login)

	registerReq := dto.RegisterRequest{
		Name:     "Rahul Sharma",
		Phone:    "9876543210",
		Email:    "rahul@example.com",
		Password: "password123",
	}
	w := performRequest(router, "POST", "/register", registerReq)
	require.Equal(t, response.CodeSuccess, parseResponse(t, w).Code)

	w = performRequest(router, "POST", "/login",
		dto.LoginRequest{Phone: "9876543210", Password: "password123"})
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeSuccess, resp.Code)

	w = performRequest(router, "POST", "/login",
		dto.LoginRequest{Phone: "9876543210", Password: "wrong"})
	resp = parseResponse(t, w)
	assert.Equal(t, response.CodeAuthFailed, resp.Code)
}
