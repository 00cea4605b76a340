package server

import (
	"fmt"
	"moontech/internal"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Feed streams order events to connected admin dashboards over websocket.
type Feed struct {
	logger   internal.LogHandler
	upgrader websocket.Upgrader
	clients  map[*websocket.Conn]bool
	mutex    sync.Mutex
}

func NewFeed(logger internal.LogHandler) *Feed {
	return &Feed{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients: make(map[*websocket.Conn]bool),
	}
}

func (f *Feed) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		f.logger.Error("feed upgrade failed", err)
		return
	}
	f.mutex.Lock()
	f.clients[conn] = true
	count := len(f.clients)
	f.mutex.Unlock()
	f.logger.Debug(fmt.Sprintf("feed client connected from %s, total %d", conn.RemoteAddr(), count))
	go f.reader(conn)
}

// reader drains incoming frames so pings are answered and drops the client
// on the first read error.
func (f *Feed) reader(conn *websocket.Conn) {
	defer f.drop(conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (f *Feed) drop(conn *websocket.Conn) {
	f.mutex.Lock()
	delete(f.clients, conn)
	f.mutex.Unlock()
	_ = conn.Close()
}

func (f *Feed) broadcast(event *internal.OrderEvent) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	for conn := range f.clients {
		if err := conn.WriteJSON(event); err != nil {
			delete(f.clients, conn)
			_ = conn.Close()
		}
	}
}

func (f *Feed) OnOrderCreated(event *internal.OrderEvent) {
	f.broadcast(event)
}

func (f *Feed) OnOrderPaid(event *internal.OrderEvent) {
	f.broadcast(event)
}

func (f *Feed) OnPaymentFailed(event *internal.OrderEvent) {
	f.broadcast(event)
}
