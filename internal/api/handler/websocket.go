package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/qs3c/blogmind_server/internal/pkg/jwt"
	"github.com/qs3c/blogmind_server/internal/pkg/response"
	"github.com/qs3c/blogmind_server/internal/pkg/ws"
)

type WebSocketHandler struct {
	hub       *ws.Hub
	jwtSecret string
	upgrader  websocket.Upgrader
}

// NewWebSocketHandler allowedOrigins 为空时不校验 Origin
func NewWebSocketHandler(hub *ws.Hub, jwtSecret string, allowedOrigins []string) *WebSocketHandler {
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = struct{}{}
	}

	return &WebSocketHandler{
		hub:       hub,
		jwtSecret: jwtSecret,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if len(origins) == 0 {
					return true
				}
				_, ok := origins[r.Header.Get("Origin")]
				return ok
			},
		},
	}
}

// Handle 生成进度推送连接
// GET /api/v1/ws?token=xxx
func (h *WebSocketHandler) Handle(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.AuthError(c, "missing token")
		return
	}

	claims, err := jwt.ParseToken(token, h.jwtSecret)
	if err != nil {
		response.AuthError(c, "invalid token")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	h.hub.Serve(&ws.Client{
		UserID: claims.UserID,
		Conn:   conn,
	})
}
