package viewer

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const writeTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}

		u, err := url.Parse(origin)
		if err != nil {
			return false
		}

		return strings.EqualFold(u.Host, r.Host)
	},
}

type versionMsg struct {
	Version string `json:"version"`
}

// serveWebsocket sends the current version on connect and every new version
// after that. Messages from the client are read and dropped.
func (v *Viewer) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		v.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	v.clientsLock.Lock()
	v.clients[conn] = true

	version := v.Version()
	if version != "" {
		if err := writeVersion(conn, version); err != nil {
			delete(v.clients, conn)
			v.clientsLock.Unlock()
			conn.Close()

			return
		}
	}
	v.clientsLock.Unlock()

	go v.drain(conn)
}

func (v *Viewer) drain(conn *websocket.Conn) {
	defer v.removeClient(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (v *Viewer) removeClient(conn *websocket.Conn) {
	v.clientsLock.Lock()
	defer v.clientsLock.Unlock()

	if v.clients[conn] {
		delete(v.clients, conn)
		conn.Close()
	}
}

func (v *Viewer) broadcast(version string) {
	v.clientsLock.Lock()
	defer v.clientsLock.Unlock()

	for conn := range v.clients {
		if err := writeVersion(conn, version); err != nil {
			delete(v.clients, conn)
			conn.Close()
		}
	}
}

func (v *Viewer) closeClients() {
	v.clientsLock.Lock()
	defer v.clientsLock.Unlock()

	for conn := range v.clients {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
			time.Now().Add(writeTimeout))
		conn.Close()
		delete(v.clients, conn)
	}
}

// ClientCount returns the number of connected websocket clients.
func (v *Viewer) ClientCount() int {
	v.clientsLock.Lock()
	defer v.clientsLock.Unlock()

	return len(v.clients)
}

func writeVersion(conn *websocket.Conn, version string) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(versionMsg{Version: version})
}
