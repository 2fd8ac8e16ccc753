package live

import (
	"log"
	"net/http"
	"strings"

	"farmfork/middleware"
	"farmfork/models"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// WebSocketHandler upgrades GET /api/live/:room. The token travels in the
// ?token= query parameter since browsers cannot set headers on sockets.
// Farmer rooms are restricted to that farmer (or an admin); order rooms are
// open to any authenticated caller since order ids are unguessable.
func WebSocketHandler(hub *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		room := ps.ByName("room")

		token := r.URL.Query().Get("token")
		if token == "" {
			token = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		}
		claims, err := middleware.ValidateJWT("Bearer " + token)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		if strings.HasPrefix(room, "farmer:") {
			ownerID := strings.TrimPrefix(room, "farmer:")
			if claims.UserID != ownerID && claims.Role != models.RoleAdmin {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
		} else if !strings.HasPrefix(room, "order:") {
			http.Error(w, "Unknown room", http.StatusBadRequest)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("live upgrade:", err)
			return
		}

		client := &Client{
			Send:   make(chan []byte, 256),
			Room:   room,
			UserID: claims.UserID,
		}
		hub.register <- client

		go writePump(conn, client)
		go readPump(conn, client, hub)
	}
}

func writePump(conn *websocket.Conn, c *Client) {
	defer conn.Close()
	for msg := range c.Send {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}

// readPump only watches for the client going away; the stream is one-way.
func readPump(conn *websocket.Conn, c *Client, hub *Hub) {
	defer func() {
		hub.Unregister(c)
		conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
