package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

type Client struct {
	Conn   *websocket.Conn
	Send   chan []byte
	UserID string
}

// Hub là sổ đăng ký kết nối: ánh xạ room (id người dùng hoặc id hội thoại)
// sang các kết nối đang mở. Chỉ dùng để đẩy realtime best-effort, không phải
// nơi lưu trữ; client offline thì message bị bỏ, bản ghi trong DB mới là
// bản chính.
type Hub struct {
	mutex   sync.RWMutex
	rooms   map[string]map[*Client]bool
	members map[*Client]map[string]bool // room mà mỗi client đã join, để dọn khi disconnect
}

func NewHub() *Hub {
	return &Hub{
		rooms:   make(map[string]map[*Client]bool),
		members: make(map[*Client]map[string]bool),
	}
}

// Register tạo client cho kết nối mới và join room cá nhân theo userID.
func (h *Hub) Register(userID string, conn *websocket.Conn) *Client {
	client := &Client{
		Conn:   conn,
		Send:   make(chan []byte, 256),
		UserID: userID,
	}

	h.mutex.Lock()
	h.members[client] = make(map[string]bool)
	h.mutex.Unlock()

	h.JoinRoom(client, userID)
	return client
}

func (h *Hub) JoinRoom(client *Client, roomID string) {
	if roomID == "" {
		return
	}
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if _, ok := h.members[client]; !ok {
		return // đã disconnect
	}
	if _, ok := h.rooms[roomID]; !ok {
		h.rooms[roomID] = make(map[*Client]bool)
	}
	h.rooms[roomID][client] = true
	h.members[client][roomID] = true
}

func (h *Hub) LeaveRoom(client *Client, roomID string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.removeFromRoom(client, roomID)
}

// Disconnect gỡ client khỏi mọi room và đóng kênh gửi.
func (h *Hub) Disconnect(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	rooms, ok := h.members[client]
	if !ok {
		return
	}
	for roomID := range rooms {
		h.removeFromRoom(client, roomID)
	}
	delete(h.members, client)
	close(client.Send)
}

// removeFromRoom yêu cầu caller đã giữ lock.
func (h *Hub) removeFromRoom(client *Client, roomID string) {
	if clients, ok := h.rooms[roomID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.rooms, roomID)
		}
	}
	if rooms, ok := h.members[client]; ok {
		delete(rooms, roomID)
	}
}

// Push gửi event tới mọi kết nối trong room. Fire-and-forget: room trống thì
// bỏ qua, kênh gửi đầy thì bỏ message thay vì chặn caller.
func (h *Hub) Push(roomID string, event string, payload interface{}) {
	data, err := json.Marshal(map[string]interface{}{
		"event": event,
		"data":  payload,
	})
	if err != nil {
		log.Println("JSON marshal error:", err)
		return
	}

	h.mutex.RLock()
	defer h.mutex.RUnlock()

	if clients, ok := h.rooms[roomID]; ok {
		for client := range clients {
			select {
			case client.Send <- data:
			default:
			}
		}
	}
}

// RoomSize trả về số kết nối đang ở trong room.
func (h *Hub) RoomSize(roomID string) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.rooms[roomID])
}

// Stats phục vụ health check.
func (h *Hub) Stats() map[string]int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return map[string]int{
		"rooms":   len(h.rooms),
		"clients": len(h.members),
	}
}
