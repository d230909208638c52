package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	ws "github.com/HndrkDrs/WeekWise/internal/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	readLimit  = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// embedded views are served from other origins
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WebSocketUpgrade subscribes the connection to change events.
func WebSocketUpgrade(hub *ws.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("WebSocket upgrade error: %v", err)
			return
		}

		client := ws.NewClient()
		if !hub.Register(client) {
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
				time.Now().Add(writeWait))
			conn.Close()
			return
		}

		replies := make(chan []byte, 4)
		go writePump(conn, client, replies)
		go readPump(conn, client, hub, replies)
	}
}

func writePump(conn *websocket.Conn, client *ws.Client, replies <-chan []byte) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case msg, ok := <-client.Send():
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case msg := <-replies:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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

func readPump(conn *websocket.Conn, client *ws.Client, hub *ws.Hub, replies chan<- []byte) {
	defer func() {
		hub.Unregister(client)
		conn.Close()
	}()

	conn.SetReadLimit(readLimit)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			return
		}
		if reply := clientReply(data); reply != nil {
			select {
			case replies <- reply:
			default:
			}
		}
	}
}

// clientReply answers a client frame. Clients only send pings; anything
// else gets an error frame.
func clientReply(data []byte) []byte {
	var in ws.IncomingMessage
	var out ws.Message
	switch err := json.Unmarshal(data, &in); {
	case err != nil:
		out = ws.NewMessage(ws.TypeError, ws.ErrorPayload{Code: "bad_request", Message: "invalid JSON"})
	case in.Type == ws.TypePing:
		out = ws.NewMessage(ws.TypePong, nil)
	default:
		out = ws.NewMessage(ws.TypeError, ws.ErrorPayload{Code: "bad_request", Message: "unknown message type " + string(in.Type)})
	}
	reply, err := out.JSON()
	if err != nil {
		return nil
	}
	return reply
}
