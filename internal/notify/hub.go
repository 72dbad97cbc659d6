package notify

import (
	"encoding/json"
	"log"

	"github.com/gorilla/websocket"
)

// Event is the typed payload pushed to connected billing consoles.
type Event struct {
	Kind      string `json:"kind"`
	PatientID int    `json:"patient_id,omitempty"`
	BillID    int    `json:"bill_id,omitempty"`
}

// EventBillCreated announces that an invoice landed and its linked records
// were marked billed; consoles with that patient selected should refresh.
const EventBillCreated = "bill.created"

// Client mewakili koneksi WebSocket
type Client struct {
	Conn *websocket.Conn
	Send chan []byte
}

// Hub mengelola semua koneksi client
type Hub struct {
	Clients    map[*Client]bool
	Broadcast  chan Event
	Register   chan *Client
	Unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		Broadcast:  make(chan Event),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Publish hands an event to the hub for broadcast.
func (h *Hub) Publish(ev Event) {
	h.Broadcast <- ev
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.Clients[client] = true
		case client := <-h.Unregister:
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				close(client.Send)
			}
		case ev := <-h.Broadcast:
			message, err := json.Marshal(ev)
			if err != nil {
				log.Printf("notify: drop unmarshalable event: %v", err)
				continue
			}
			for client := range h.Clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.Clients, client)
				}
			}
		}
	}
}
