package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/tiffinbox/tiffin_go_server/internal/pkg/jwt"
	"github.com/tiffinbox/tiffin_go_server/internal/pkg/ws"
	"github.com/tiffinbox/tiffin_go_server/internal/repository"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// 跨域由 CORS 中间件统一管理，这里放行
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WSHandler struct {
	hub       *ws.Hub
	userRepo  *repository.UserRepository
	jwtSecret string
}

func NewWSHandler(hub *ws.Hub, userRepo *repository.UserRepository, jwtSecret string) *WSHandler {
	return &WSHandler{
		hub:       hub,
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
	}
}

// Serve 建立 WebSocket 连接
// GET /api/v1/ws?token=xxx
// 浏览器 WebSocket API 不支持自定义 Header，token 走 query 参数
func (h *WSHandler) Serve(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Missing token"})
		return
	}

	claims, err := jwt.ParseToken(token, h.jwtSecret)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
		return
	}

	user, err := h.userRepo.GetByID(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade websocket for user %d: %v", claims.UserID, err)
		return
	}

	client := &ws.Client{
		UserID:  user.ID,
		IsAdmin: user.Role == "admin",
		Conn:    conn,
	}
	h.hub.Register(client)

	go h.readLoop(client)
}

// readLoop 只负责消费客户端消息并感知断连，服务端推送由 Hub 完成
func (h *WSHandler) readLoop(client *ws.Client) {
	defer func() {
		h.hub.Unregister(client)
		client.Conn.Close()
	}()

	for {
		if _, _, err := client.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
