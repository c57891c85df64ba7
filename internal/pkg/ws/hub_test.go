package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewHub(t *testing.T) {
	hub := NewHub()

	assert.NotNil(t, hub)
	assert.Equal(t, 0, hub.ConnectionCount())
}

func TestHub_IsOnline_NoConnections(t *testing.T) {
	hub := NewHub()

	assert.False(t, hub.IsOnline(123))
}

func TestHub_SendToUser_UserNotOnline(t *testing.T) {
	hub := NewHub()

	msg := &Message{
		Type: "order_event",
		Data: map[string]string{"meal": "lunch"},
	}

	// 离线用户不报错
	err := hub.SendToUser(123, msg)
	assert.NoError(t, err)
}

func TestHub_BroadcastToAdmins_Empty(t *testing.T) {
	hub := NewHub()

	err := hub.BroadcastToAdmins(&Message{Type: "order_event"})
	assert.NoError(t, err)
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()

	client := &Client{UserID: 7, IsAdmin: true}
	hub.Register(client)

	assert.True(t, hub.IsOnline(7))
	assert.Equal(t, 1, hub.ConnectionCount())

	hub.Unregister(client)

	assert.False(t, hub.IsOnline(7))
	assert.Equal(t, 0, hub.ConnectionCount())
}
