package notify

import (
	"context"
	"encoding/json"
	"log"

	"github.com/gorilla/websocket"
)

// Listen dials the hub endpoint and invokes onEvent for every event until
// the context is cancelled or the connection drops. The caller decides what
// a given event means; the billing console uses it to refresh enrichment
// when another console bills records for the same patient.
func Listen(ctx context.Context, url string, onEvent func(Event)) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		var ev Event
		if err := json.Unmarshal(message, &ev); err != nil {
			log.Printf("notify: skip malformed event: %v", err)
			continue
		}
		onEvent(ev)
	}
}
