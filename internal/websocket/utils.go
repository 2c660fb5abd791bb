package websocket

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait = 10 * time.Second
	readWait  = 5 * time.Minute
	// MaxMessageSize bounds one client message; a full four-year plan is far smaller.
	MaxMessageSize = 64 << 10
)

// WriteTyped sends a strongly-typed response payload over the WebSocket.
func WriteTyped(conn *websocket.Conn, v interface{}) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(v)
}

// WriteError sends a typed ErrorResponse over the WebSocket.
func WriteError(conn *websocket.Conn, id, code, errMsg string, fields map[string]string) error {
	return WriteTyped(conn, ErrorResponse{
		Event:  EventError,
		ID:     id,
		Code:   code,
		Error:  errMsg,
		Fields: fields,
	})
}

// ReadMessage reads one text message with a read deadline.
func ReadMessage(conn *websocket.Conn) ([]byte, error) {
	conn.SetReadDeadline(time.Now().Add(readWait))
	_, data, err := conn.ReadMessage()
	return data, err
}
