package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jobhub/jobhub/internal/model"
	"github.com/jobhub/jobhub/internal/realtime"
)

const (
	// writeWait はクライアントへの書き込みタイムアウト。
	writeWait = 10 * time.Second
	// pongWait はクライアントからのpong応答の待ち時間。
	pongWait = 60 * time.Second
	// pingPeriod はpingの送信間隔。pongWaitより短くする必要がある。
	pingPeriod = (pongWait * 9) / 10
)

// WSHandler は求人ルームへのWebSocket接続を処理するハンドラー。
type WSHandler struct {
	hub      *realtime.Hub
	upgrader websocket.Upgrader
}

// NewWSHandler はWSHandlerを生成する。
// allowedOriginsはCORSと同様にWebSocketのオリジン検証に使用する。
func NewWSHandler(hub *realtime.Hub, allowedOrigins []string) *WSHandler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = struct{}{}
	}

	return &WSHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
	}
}

// Serve はWebSocket接続を確立し、求人ルームに参加させる。
// GET /api/ws?job=xxx
// サーバーからクライアントへの配信専用。クライアントからのメッセージは破棄する。
func (h *WSHandler) Serve(w http.ResponseWriter, r *http.Request) {
	jobID := r.URL.Query().Get("job")
	if jobID == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	client := h.hub.Join(jobID)

	go h.writePump(conn, client)
	go h.readPump(conn, client)
}

// writePump はハブからのイベントをクライアントへ書き込む。
// 定期的にpingを送信して接続の生存を確認する。
func (h *WSHandler) writePump(conn *websocket.Conn, client *realtime.Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// ハブがチャネルを閉じた
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump はクライアントからの受信を処理する。
// 配信専用のためメッセージは破棄するが、切断検知のために読み続ける。
func (h *WSHandler) readPump(conn *websocket.Conn, client *realtime.Client) {
	defer func() {
		h.hub.Leave(client)
		conn.Close()
	}()

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
