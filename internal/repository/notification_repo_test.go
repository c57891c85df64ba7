package repository

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiffinbox/tiffin_go_server/internal/model"
	"github.com/tiffinbox/tiffin_go_server/internal/testutil"
)

func TestNotificationRepository_PruneRead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewNotificationRepository(db)

	// 8 条已读 + 3 条未读
	for i := 0; i < 8; i++ {
		n := &model.Notification{
			Message: fmt.Sprintf("read %d", i),
			Type:    model.NotificationTypeOrder,
			IsRead:  true,
		}
		require.NoError(t, repo.Create(n))
	}
	for i := 0; i < 3; i++ {
		n := &model.Notification{
			Message: fmt.Sprintf("unread %d", i),
			Type:    model.NotificationTypeOrder,
		}
		require.NoError(t, repo.Create(n))
	}

	// 保留 5 条已读，多出的 3 条清掉；未读永不清理
	deleted, err := repo.PruneRead(5)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	var total, unread int64
	require.NoError(t, db.Model(&model.Notification{}).Count(&total).Error)
	require.NoError(t, db.Model(&model.Notification{}).Where("is_read = ?", false).Count(&unread).Error)
	assert.Equal(t, int64(8), total)
	assert.Equal(t, int64(3), unread)

	// 没有超额时不删除
	deleted, err = repo.PruneRead(5)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestNotificationRepository_MarkRead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewNotificationRepository(db)

	n := &model.Notification{Message: "hello", Type: model.NotificationTypeSystem}
	require.NoError(t, repo.Create(n))
	require.False(t, n.IsRead)

	require.NoError(t, repo.MarkRead(n.ID))

	var stored model.Notification
	require.NoError(t, db.First(&stored, n.ID).Error)
	assert.True(t, stored.IsRead)
}
