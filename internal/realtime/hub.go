// Package realtime は求人ごとのルームに対するWebSocket配信ハブを提供する。
// ルームは求人IDをキーとし、ルーム内の全クライアントへイベントを配信する。
package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"
)

// EventType はWebSocketイベントの種別を表す。
type EventType string

const (
	// EventCommentAdded は新規コメントの配信イベント。
	EventCommentAdded EventType = "comment-added"
	// EventLikeUpdated は「いいね」数更新の配信イベント。
	EventLikeUpdated EventType = "like-updated"
)

// Event はWebSocketで配信されるイベントの封筒。
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload"`
	Time    int64     `json:"time"`
}

// Client はルームに参加している1つのWebSocket接続を表す。
type Client struct {
	RoomID string // 参加している求人ID
	Send   chan []byte
}

// broadcastRequest はルームへの配信要求。
type broadcastRequest struct {
	roomID  string
	message []byte
}

// ConnectionRecorder は接続数のメトリクス記録に必要なインターフェース。
type ConnectionRecorder interface {
	RecordWSConnection(delta int)
}

// Hub はルームごとのクライアント集合を管理し、イベントを配信する。
// ルームのマップはRunを実行する単一のゴルーチンが所有する。
type Hub struct {
	rooms   map[string]map[*Client]bool
	metrics ConnectionRecorder

	register   chan *Client
	unregister chan *Client
	broadcast  chan broadcastRequest

	// 外部からのUnregister呼び出しとRunループ終了の競合を防ぐ
	mu     sync.RWMutex
	closed bool
}

// NewHub はHubを生成する。Runを呼び出すまで配信は行われない。
// metricsはnilでもよい。
func NewHub(metrics ConnectionRecorder) *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		metrics:    metrics,
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		broadcast:  make(chan broadcastRequest, 256),
	}
}

// recordConnection は接続数の増減をメトリクスへ記録する。
func (h *Hub) recordConnection(delta int) {
	if h.metrics != nil {
		h.metrics.RecordWSConnection(delta)
	}
}

// Run はハブのメインループを実行する。
// ルームへの参加・退出・配信をすべてこのゴルーチンで直列に処理する。
// ctxのキャンセルで全クライアントを切断して終了する。
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			h.closed = true
			for roomID, clients := range h.rooms {
				for client := range clients {
					close(client.Send)
					h.recordConnection(-1)
				}
				delete(h.rooms, roomID)
			}
			h.mu.Unlock()
			slog.Info("realtime hub stopped")
			return

		case client := <-h.register:
			clients, ok := h.rooms[client.RoomID]
			if !ok {
				clients = make(map[*Client]bool)
				h.rooms[client.RoomID] = clients
			}
			clients[client] = true
			h.recordConnection(1)
			slog.Info("realtime client joined room",
				slog.String("room_id", client.RoomID),
				slog.Int("room_size", len(clients)),
			)

		case client := <-h.unregister:
			h.removeClient(client)

		case req := <-h.broadcast:
			clients, ok := h.rooms[req.roomID]
			if !ok {
				continue
			}
			for client := range clients {
				select {
				case client.Send <- req.message:
				default:
					// 送信バッファが詰まっているクライアントは切断する
					h.removeClient(client)
				}
			}
		}
	}
}

// removeClient はクライアントをルームから除去し、送信チャネルを閉じる。
// Runゴルーチンからのみ呼び出される。
func (h *Hub) removeClient(client *Client) {
	clients, ok := h.rooms[client.RoomID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.Send)
	h.recordConnection(-1)
	if len(clients) == 0 {
		delete(h.rooms, client.RoomID)
	}
}

// Join は求人IDのルームに参加する新しいクライアントを登録して返す。
func (h *Hub) Join(roomID string) *Client {
	client := &Client{
		RoomID: roomID,
		Send:   make(chan []byte, 32),
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		close(client.Send)
		return client
	}
	h.register <- client
	return client
}

// Leave はクライアントをルームから退出させる。
func (h *Hub) Leave(client *Client) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return
	}
	h.unregister <- client
}

// Publish はイベントをルームの全クライアントへ配信する。
// シリアライズに失敗した場合はログに記録して破棄する。
func (h *Hub) Publish(roomID string, eventType EventType, payload any) {
	event := Event{
		Type:    eventType,
		Payload: payload,
		Time:    time.Now().UnixMilli(),
	}
	message, err := json.Marshal(event)
	if err != nil {
		slog.Error("failed to marshal realtime event",
			slog.String("event_type", string(eventType)),
			slog.String("error", err.Error()),
		)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return
	}
	select {
	case h.broadcast <- broadcastRequest{roomID: roomID, message: message}:
	default:
		slog.Warn("realtime broadcast buffer full, dropping event",
			slog.String("room_id", roomID),
			slog.String("event_type", string(eventType)),
		)
	}
}
