package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// pushInterval is how often connected clients get a stats snapshot.
var pushInterval = 1 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(req *http.Request) bool {
		return true
	},
}

func (a *Api) clientCount(delta int, ws *websocket.Conn) {
	a.wsMutex.Lock()
	if delta > 0 {
		a.wsClients[ws] = true
	} else {
		delete(a.wsClients, ws)
	}
	n := len(a.wsClients)
	a.wsMutex.Unlock()
	a.Stats.SetWsClients(n)
}

func (a *Api) handleWebsocket(w http.ResponseWriter, req *http.Request) {
	ws, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		// Upgrade has already replied
		logger().Warn(fmt.Sprintf("couldn't make websocket: %s", err))
		return
	}
	a.clientCount(1, ws)

	done := make(chan struct{})
	go a.websocketWriter(ws, done)

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}
	close(done)
	a.clientCount(-1, ws)
}

func (a *Api) websocketWriter(ws *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pushInterval)
	defer func() {
		ticker.Stop()
		err := ws.Close()
		if err != nil {
			logger().Debug(fmt.Sprintf("could not close websocket: %s", err))
		}
	}()

	timeout := 10 * time.Second
	send := func() bool {
		packet, err := json.Marshal(a.Stats.Snapshot())
		if err != nil {
			return false
		}
		if err := ws.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
			logger().Warn(fmt.Sprintf("could not set write deadline: %s", err))
			return false
		}
		return ws.WriteMessage(websocket.TextMessage, packet) == nil
	}

	if !send() {
		return
	}
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if !send() {
				return
			}
		}
	}
}
