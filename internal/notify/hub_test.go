package notify

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestHubBroadcastReachesListener(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	e := echo.New()
	e.GET("/ws", ServeWS(hub))
	srv := httptest.NewServer(e)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan Event, 1)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	go func() {
		_ = Listen(ctx, url, func(ev Event) { events <- ev })
	}()

	// Give the hub a moment to register the connection.
	time.Sleep(200 * time.Millisecond)
	hub.Publish(Event{Kind: EventBillCreated, PatientID: 2, BillID: 7})

	select {
	case ev := <-events:
		if ev.Kind != EventBillCreated || ev.PatientID != 2 || ev.BillID != 7 {
			t.Fatalf("event = %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event never reached the listener")
	}
}

func TestListenStopsOnCancel(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	e := echo.New()
	e.GET("/ws", ServeWS(hub))
	srv := httptest.NewServer(e)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	go func() {
		done <- Listen(ctx, url, func(Event) {})
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("Listen returned nil after cancellation")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Listen did not return after cancellation")
	}
}
