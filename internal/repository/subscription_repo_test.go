package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tiffinbox/tiffin_go_server/internal/model"
	"github.com/tiffinbox/tiffin_go_server/internal/testutil"
)

func setupSubscriptionRepo(t *testing.T) (*SubscriptionRepository, *gorm.DB, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	repo := NewSubscriptionRepository(db)

	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}

	return repo, db, cleanup
}

func TestSubscriptionRepository_GetActiveByUserID(t *testing.T) {
	repo, db, cleanup := setupSubscriptionRepo(t)
	defer cleanup()

	user := testutil.TestUser(t, db)
	plan := testutil.TestPlan(t, db)

	_, err := repo.GetActiveByUserID(user.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	created := testutil.TestSubscription(t, db, user.ID, plan.ID)

	sub, err := repo.GetActiveByUserID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, sub.ID)
	require.NotNil(t, sub.Plan)
	assert.Equal(t, plan.Name, sub.Plan.Name)

	// 过期订阅不算生效
	require.NoError(t, repo.UpdateStatus(created.ID, model.StatusExpired))
	_, err = repo.GetActiveByUserID(user.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSubscriptionRepository_SaveWithVersion(t *testing.T) {
	repo, db, cleanup := setupSubscriptionRepo(t)
	defer cleanup()

	user := testutil.TestUser(t, db)
	plan := testutil.TestPlan(t, db)
	created := testutil.TestSubscription(t, db, user.ID, plan.ID)

	sub, err := repo.GetActiveByUserID(user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), sub.Version)

	sub.SkipBalance = 0.5
	sub.SkippedMeals = append(sub.SkippedMeals, model.SkippedMeal{
		SubscriptionID: sub.ID,
		Date:           time.Now().AddDate(0, 0, 3),
		Meal:           model.MealLunch,
	})

	require.NoError(t, repo.SaveWithVersion(sub))
	assert.Equal(t, int64(1), sub.Version)

	stored, err := repo.GetByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.5, stored.SkipBalance)
	assert.Equal(t, int64(1), stored.Version)
	require.Len(t, stored.SkippedMeals, 1)
}

func TestSubscriptionRepository_SaveWithVersion_Stale(t *testing.T) {
	repo, db, cleanup := setupSubscriptionRepo(t)
	defer cleanup()

	user := testutil.TestUser(t, db)
	plan := testutil.TestPlan(t, db)
	testutil.TestSubscription(t, db, user.ID, plan.ID)

	// 两个副本各自读到版本 0
	first, err := repo.GetActiveByUserID(user.ID)
	require.NoError(t, err)
	second, err := repo.GetActiveByUserID(user.ID)
	require.NoError(t, err)

	first.SkipBalance = 0.5
	require.NoError(t, repo.SaveWithVersion(first))

	// 第二个副本的版本已落后，提交必须失败
	second.SkipBalance = 0.0
	second.EndDate = second.EndDate.AddDate(0, 0, 1)
	err = repo.SaveWithVersion(second)
	assert.ErrorIs(t, err, ErrStaleSubscription)

	// 落库的仍是第一次提交的结果
	stored, err := repo.GetActiveByUserID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.5, stored.SkipBalance)
	assert.Equal(t, int64(1), stored.Version)
}

func TestSubscriptionRepository_SaveWithVersion_RewritesSkippedMeals(t *testing.T) {
	repo, db, cleanup := setupSubscriptionRepo(t)
	defer cleanup()

	user := testutil.TestUser(t, db)
	plan := testutil.TestPlan(t, db)
	date := time.Now().AddDate(0, 0, 3)
	testutil.TestSubscription(t, db, user.ID, plan.ID,
		testutil.WithSkippedMeal(date, model.MealBoth))

	sub, err := repo.GetActiveByUserID(user.ID)
	require.NoError(t, err)
	require.Len(t, sub.SkippedMeals, 1)

	// both 降级为 dinner 后整体重写子表
	sub.SkippedMeals[0].Meal = model.MealDinner
	require.NoError(t, repo.SaveWithVersion(sub))

	stored, err := repo.GetActiveByUserID(user.ID)
	require.NoError(t, err)
	require.Len(t, stored.SkippedMeals, 1)
	assert.Equal(t, model.MealDinner, stored.SkippedMeals[0].Meal)

	var count int64
	require.NoError(t, db.Model(&model.SkippedMeal{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSubscriptionRepository_MarkExpired(t *testing.T) {
	repo, db, cleanup := setupSubscriptionRepo(t)
	defer cleanup()

	plan := testutil.TestPlan(t, db)
	today := time.Date(time.Now().Year(), time.Now().Month(), time.Now().Day(), 0, 0, 0, 0, time.Local)

	u1 := testutil.TestUser(t, db)
	endedStart := today.AddDate(0, 0, -40)
	ended := testutil.TestSubscription(t, db, u1.ID, plan.ID,
		testutil.WithWindow(endedStart, endedStart.AddDate(0, 0, 30)))

	u2 := testutil.TestUser(t, db)
	active := testutil.TestSubscription(t, db, u2.ID, plan.ID)

	count, err := repo.MarkExpired(today)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	stored, err := repo.GetByID(ended.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusExpired, stored.Status)

	stored, err = repo.GetByID(active.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, stored.Status)
}

func TestSubscriptionRepository_CountByStatus(t *testing.T) {
	repo, db, cleanup := setupSubscriptionRepo(t)
	defer cleanup()

	plan := testutil.TestPlan(t, db)

	u1 := testutil.TestUser(t, db)
	testutil.TestSubscription(t, db, u1.ID, plan.ID)

	u2 := testutil.TestUser(t, db)
	testutil.TestSubscription(t, db, u2.ID, plan.ID,
		testutil.WithStatus(model.StatusPendingApproval))

	activeCount, err := repo.CountByStatus(model.StatusActive)
	require.NoError(t, err)
	assert.Equal(t, int64(1), activeCount)

	pendingCount, err := repo.CountByStatus(model.StatusPendingApproval)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pendingCount)
}
