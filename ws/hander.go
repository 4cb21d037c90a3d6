package ws

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/megan-fernandes/edulearn-server/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // chỉ để phát triển, nên giới hạn ở production
	},
}

// clientEvent là control frame từ client: register / joinRoom / leaveRoom.
type clientEvent struct {
	Event  string `json:"event"`
	UserID string `json:"userId,omitempty"`
	RoomID string `json:"roomId,omitempty"`
}

// HandleWebSocket xác thực token ở handshake, đăng ký kết nối vào hub rồi
// chạy hai pump đọc/ghi.
func HandleWebSocket(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Thiếu token"})
			return
		}
		claims, err := utils.VerifyToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token không hợp lệ hoặc hết hạn"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Println("WebSocket upgrade thất bại:", err)
			return
		}

		client := hub.Register(claims.UserID, conn)
		go writePump(client)
		readPump(hub, client)
	}
}

// readPump xử lý control frame cho tới khi client ngắt kết nối.
func readPump(hub *Hub, client *Client) {
	defer hub.Disconnect(client)
	for {
		_, raw, err := client.Conn.ReadMessage()
		if err != nil {
			break
		}

		var ev clientEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			continue
		}
		switch ev.Event {
		case "register":
			// room cá nhân đã join lúc handshake; cho phép gọi lại, không tạo trùng
			hub.JoinRoom(client, client.UserID)
		case "joinRoom":
			hub.JoinRoom(client, ev.RoomID)
		case "leaveRoom":
			hub.LeaveRoom(client, ev.RoomID)
		}
	}
}

func writePump(client *Client) {
	defer func() {
		client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
		client.Conn.Close()
	}()
	for msg := range client.Send {
		if err := client.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}
