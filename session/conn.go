//go:generate go run go.uber.org/mock/mockgen -source=conn.go -destination=../mocks/mock_conn.go -package=mocks

package session

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// Conn is the message-framed connection a session drives.
// *websocket.Conn from gorilla/websocket satisfies it.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Input is the message entry field the user types into.
type Input interface {
	Text() string
	Clear()
}

// Endpoint builds the websocket URL of the chat server.
func Endpoint(host string, port int, path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := url.URL{
		Scheme: "ws",
		Host:   net.JoinHostPort(host, strconv.Itoa(port)),
		Path:   path,
	}
	return u.String()
}

// State is the lifecycle position of a session.
type State int

const (
	StateConnecting State = iota
	StateOpen
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "Connecting..."
	case StateOpen:
		return "Connected"
	case StateClosed:
		return "Disconnected"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}
