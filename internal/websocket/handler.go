package websocket

import "github.com/gofiber/websocket/v2"

// ServeWs attaches conn to the hub and blocks until the peer goes away.
func ServeWs(hub *Hub, conn *websocket.Conn, annotator string) {
	client := NewClient(hub, conn, annotator)
	if !hub.join(client) {
		conn.Close()
		return
	}

	go client.writePump()
	client.readPump()
}
