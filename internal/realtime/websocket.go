package realtime

import (
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeClient pumps hub events to a websocket connection until the peer
// goes away. Incoming frames are read and discarded to keep the
// connection's control handling alive.
func ServeClient(hub *Hub, conn *websocket.Conn, userID uuid.UUID) {
	client := &Client{
		ID:     uuid.NewString(),
		UserID: userID,
		Send:   make(chan []byte, 64),
	}
	hub.RegisterClient(client)
	defer hub.UnregisterClient(client)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case msg, ok := <-client.Send:
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
