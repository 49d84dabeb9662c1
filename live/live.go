package live

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

// Per-tour websocket fanout. Clients subscribe to a tour's topic and
// receive availability updates as admin edits and bookings land. The
// stream carries only public availability data, so connections are
// unauthenticated.

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

var (
	subscribers = make(map[string][]*websocket.Conn)
	mu          sync.Mutex
)

type update struct {
	Type   string `json:"type"`
	TourID string `json:"tourId"`
	Date   string `json:"date,omitempty"`
}

// HandleWS subscribes the connection to one tour's updates until the
// client disconnects.
func HandleWS(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	key := ps.ByName("tourid")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "WebSocket upgrade failed", http.StatusBadRequest)
		return
	}

	mu.Lock()
	subscribers[key] = append(subscribers[key], conn)
	mu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	mu.Lock()
	conns := subscribers[key]
	newList := make([]*websocket.Conn, 0, len(conns))
	for _, c := range conns {
		if c != conn {
			newList = append(newList, c)
		}
	}
	subscribers[key] = newList
	mu.Unlock()

	conn.Close()
}

// BroadcastAvailability notifies a tour's subscribers that slots for a
// date changed. Dead connections are pruned as writes fail.
func BroadcastAvailability(tourID, date string) {
	data, _ := json.Marshal(update{Type: "availability", TourID: tourID, Date: date})

	mu.Lock()
	defer mu.Unlock()

	conns := subscribers[tourID]
	newList := conns[:0]
	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err == nil {
			newList = append(newList, conn)
		} else {
			conn.Close()
		}
	}
	subscribers[tourID] = newList
}

// Shutdown closes every live connection during graceful stop.
func Shutdown() {
	mu.Lock()
	defer mu.Unlock()
	for key, conns := range subscribers {
		for _, c := range conns {
			c.Close()
		}
		delete(subscribers, key)
	}
}
