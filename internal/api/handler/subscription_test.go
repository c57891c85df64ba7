package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tiffinbox/tiffin_go_server/config"
	"github.com/tiffinbox/tiffin_go_server/internal/api/middleware"
	"github.com/tiffinbox/tiffin_go_server/internal/model"
	"github.com/tiffinbox/tiffin_go_server/internal/model/dto"
	"github.com/tiffinbox/tiffin_go_server/internal/pkg/response"
	"github.com/tiffinbox/tiffin_go_server/internal/repository"
	"github.com/tiffinbox/tiffin_go_server/internal/service"
	"github.com/tiffinbox/tiffin_go_server/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	return resp
}

// 测试路由里用假登录中间件直接注入用户 ID
func withUser(userID int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Next()
	}
}

func setupSubscriptionHandler(t *testing.T) (*SubscriptionHandler, *gorm.DB, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)

	cfg := &config.Config{
		Skip: config.SkipConfig{CutoffHour: 22, MaxMeals: 10},
	}

	subService := service.NewSubscriptionService(
		repository.NewSubscriptionRepository(db),
		repository.NewPlanRepository(db),
		repository.NewUserRepository(db),
		repository.NewNotificationRepository(db),
		nil,
		nil,
		cfg,
	)

	handler := NewSubscriptionHandler(subService)

	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}

	return handler, db, cleanup
}

func subscriptionRouter(handler *SubscriptionHandler, userID int64) *gin.Engine {
	router := gin.New()
	authed := router.Group("", withUser(userID))
	authed.POST("/subscriptions", handler.Create)
	authed.GET("/subscriptions/me", handler.GetMine)
	authed.POST("/subscriptions/skip", handler.Skip)
	authed.POST("/subscriptions/unskip", handler.Unskip)
	return router
}

func TestSubscriptionHandler_Create(t *testing.T) {
	handler, db, cleanup := setupSubscriptionHandler(t)
	defer cleanup()

	user := testutil.TestUser(t, db)
	plan := testutil.TestPlan(t, db)
	router := subscriptionRouter(handler, user.ID)

	w := performRequest(router, "POST", "/subscriptions",
		dto.CreateSubscriptionRequest{PlanID: plan.ID})
	resp := parseResponse(t, w)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, response.CodeSuccess, resp.Code)

	w = performRequest(router, "GET", "/subscriptions/me", nil)
	resp = parseResponse(t, w)
	assert.Equal(t, response.CodeSuccess, resp.Code)
}

func TestSubscriptionHandler_Create_PlanNotFound(t *testing.T) {
	handler, db, cleanup := setupSubscriptionHandler(t)
	defer cleanup()

	user := testutil.TestUser(t, db)
	router := subscriptionRouter(handler, user.ID)

	w := performRequest(router, "POST", "/subscriptions",
		dto.CreateSubscriptionRequest{PlanID: 99999})
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeResourceNotFound, resp.Code)
	assert.Equal(t, "Plan not found", resp.Message)
}

func TestSubscriptionHandler_Create_BadStartDate(t *testing.T) {
	handler, db, cleanup := setupSubscriptionHandler(t)
	defer cleanup()

	user := testutil.TestUser(t, db)
	plan := testutil.TestPlan(t, db)
	router := subscriptionRouter(handler, user.ID)

	w := performRequest(router, "POST", "/subscriptions",
		dto.CreateSubscriptionRequest{PlanID: plan.ID, StartDate: "01-04-2026"})
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeParamError, resp.Code)
}

func TestSubscriptionHandler_GetMine_NoSubscription(t *testing.T) {
	handler, db, cleanup := setupSubscriptionHandler(t)
	defer cleanup()

	user := testutil.TestUser(t, db)
	router := subscriptionRouter(handler, user.ID)

	w := performRequest(router, "GET", "/subscriptions/me", nil)
	resp := parseResponse(t, w)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, response.CodeResourceNotFound, resp.Code)
	assert.Equal(t, "No active subscription", resp.Message)
}

func TestSubscriptionHandler_Skip(t *testing.T) {
	handler, db, cleanup := setupSubscriptionHandler(t)
	defer cleanup()

	user := testutil.TestUser(t, db)
	plan := testutil.TestPlan(t, db)
	testutil.TestSubscription(t, db, user.ID, plan.ID)
	router := subscriptionRouter(handler, user.ID)

	date := time.Now().AddDate(0, 0, 3).Format("2006-01-02")

	w := performRequest(router, "POST", "/subscriptions/skip",
		dto.SkipMealRequest{Date: date, Meal: model.MealLunch})
	resp := parseResponse(t, w)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, response.CodeSuccess, resp.Code)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, data["message"], "Skipped lunch")

	// 同一餐重复跳
	w = performRequest(router, "POST", "/subscriptions/skip",
		dto.SkipMealRequest{Date: date, Meal: model.MealLunch})
	resp = parseResponse(t, w)
	assert.Equal(t, response.CodeDuplicateAction, resp.Code)
	assert.Equal(t, "Meal already skipped.", resp.Message)
}

func TestSubscriptionHandler_Skip_PastDate(t *testing.T) {
	handler, db, cleanup := setupSubscriptionHandler(t)
	defer cleanup()

	user := testutil.TestUser(t, db)
	plan := testutil.TestPlan(t, db)
	testutil.TestSubscription(t, db, user.ID, plan.ID)
	router := subscriptionRouter(handler, user.ID)

	date := time.Now().AddDate(0, 0, -1).Format("2006-01-02")

	w := performRequest(router, "POST", "/subscriptions/skip",
		dto.SkipMealRequest{Date: date, Meal: model.MealLunch})
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodePolicyDenied, resp.Code)
	assert.Equal(t, "Cannot skip past or current day meals.", resp.Message)
}

func TestSubscriptionHandler_Skip_InvalidMeal(t *testing.T) {
	handler, db, cleanup := setupSubscriptionHandler(t)
	defer cleanup()

	user := testutil.TestUser(t, db)
	plan := testutil.TestPlan(t, db)
	testutil.TestSubscription(t, db, user.ID, plan.ID)
	router := subscriptionRouter(handler, user.ID)

	date := time.Now().AddDate(0, 0, 3).Format("2006-01-02")

	w := performRequest(router, "POST", "/subscriptions/skip",
		dto.SkipMealRequest{Date: date, Meal: "breakfast"})
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeParamError, resp.Code)
}

func TestSubscriptionHandler_Skip_LimitExceeded(t *testing.T) {
	handler, db, cleanup := setupSubscriptionHandler(t)
	defer cleanup()

	user := testutil.TestUser(t, db)
	plan := testutil.TestPlan(t, db)
	testutil.TestSubscription(t, db, user.ID, plan.ID)
	router := subscriptionRouter(handler, user.ID)

	for i := 0; i < 5; i++ {
		date := time.Now().AddDate(0, 0, 3+i).Format("2006-01-02")
		w := performRequest(router, "POST", "/subscriptions/skip",
			dto.SkipMealRequest{Date: date, Meal: model.MealBoth})
		require.Equal(t, response.CodeSuccess, parseResponse(t, w).Code, "skip %d", i)
	}

	date := time.Now().AddDate(0, 0, 10).Format("2006-01-02")
	w := performRequest(router, "POST", "/subscriptions/skip",
		dto.SkipMealRequest{Date: date, Meal: model.MealLunch})
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeLimitExceeded, resp.Code)
}

func TestSubscriptionHandler_Unskip(t *testing.T) {
	handler, db, cleanup := setupSubscriptionHandler(t)
	defer cleanup()

	user := testutil.TestUser(t, db)
	plan := testutil.TestPlan(t, db)
	testutil.TestSubscription(t, db, user.ID, plan.ID)
	router := subscriptionRouter(handler, user.ID)

	date := time.Now().AddDate(0, 0, 3).Format("2006-01-02")

	w := performRequest(router, "POST", "/subscriptions/skip",
		dto.SkipMealRequest{Date: date, Meal: model.MealBoth})
	require.Equal(t, response.CodeSuccess, parseResponse(t, w).Code)

	w = performRequest(router, "POST", "/subscriptions/unskip",
		dto.SkipMealRequest{Date: date, Meal: model.MealLunch})
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeSuccess, resp.Code)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Unskipped lunch. Subscription updated.", data["message"])
}

func TestSubscriptionHandler_Unskip_NotSkipped(t *testing.T) {
	handler, db, cleanup := setupSubscriptionHandler(t)
	defer cleanup()

	user := testutil.TestUser(t, db)
	plan := testutil.TestPlan(t, db)
	testutil.TestSubscription(t, db, user.ID, plan.ID)
	router := subscriptionRouter(handler, user.ID)

	date := time.Now().AddDate(0, 0, 3).Format("2006-01-02")

	w := performRequest(router, "POST", "/subscriptions/unskip",
		dto.SkipMealRequest{Date: date, Meal: model.MealDinner})
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodePolicyDenied, resp.Code)
	assert.Equal(t, "Meal is not skipped currently.", resp.Message)
}

func TestSubscriptionHandler_Skip_MissingFields(t *testing.T) {
	handler, db, cleanup := setupSubscriptionHandler(t)
	defer cleanup()

	user := testutil.TestUser(t, db)
	router := subscriptionRouter(handler, user.ID)

	w := performRequest(router, "POST", "/subscriptions/skip",
		map[string]string{"date": ""})
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeParamError, resp.Code)
}

func TestSubscriptionHandler_Skip_BadDateFormat(t *testing.T) {
	handler, db, cleanup := setupSubscriptionHandler(t)
	defer cleanup()

	user := testutil.TestUser(t, db)
	router := subscriptionRouter(handler, user.ID)

	w := performRequest(router, "POST", "/subscriptions/skip",
		dto.SkipMealRequest{Date: "03/15/2026", Meal: model.MealLunch})
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeParamError, resp.Code)
	assert.Equal(t, "Invalid date format, expected YYYY-MM-DD", resp.Message)
}

func TestSubscriptionHandler_Skip_BalanceInMessage(t *testing.T) {
	handler, db, cleanup := setupSubscriptionHandler(t)
	defer cleanup()

	user := testutil.TestUser(t, db)
	plan := testutil.TestPlan(t, db)
	testutil.TestSubscription(t, db, user.ID, plan.ID)
	router := subscriptionRouter(handler, user.ID)

	date := time.Now().AddDate(0, 0, 3).Format("2006-01-02")
	w := performRequest(router, "POST", "/subscriptions/skip",
		dto.SkipMealRequest{Date: date, Meal: model.MealLunch})
	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	data := resp.Data.(map[string]interface{})
	// 半餐余额显示为 0.5，not 0.50
	assert.Equal(t, fmt.Sprintf("Skipped %s. Balance: 0.5. Extended by 0 days.", model.MealLunch), data["message"])
}
