package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"backend/internal/model"
)

func registerClient(t *testing.T, hub *Hub, barangayID, role string) *Client {
	t.Helper()
	client := &Client{
		Hub:        hub,
		Send:       make(chan []byte, 4),
		BarangayID: barangayID,
		Role:       role,
	}
	// The send completes only once the Run loop has picked the client up, so
	// later publishes are guaranteed to see it.
	hub.register <- client
	return client
}

func recvEvent(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case payload, ok := <-c.Send:
		if !ok {
			t.Fatal("send channel closed")
		}
		var evt Event
		if err := json.Unmarshal(payload, &evt); err != nil {
			t.Fatalf("undecodable event payload: %v", err)
		}
		return evt
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}
	return Event{}
}

func TestHubScopesEventsByBarangay(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	mine := registerClient(t, hub, "barangay-a", model.RoleAdmin)
	foreign := registerClient(t, hub, "barangay-b", model.RoleAdmin)
	super := registerClient(t, hub, "", model.RoleSuperadmin)

	hub.Publish(Event{
		Type:            EventRequestsChanged,
		BarangayID:      "barangay-a",
		RequestID:       "req-1",
		Status:          "Pending",
		CertificateType: "Barangay Clearance",
	})

	evt := recvEvent(t, mine)
	if evt.Type != EventRequestsChanged || evt.BarangayID != "barangay-a" || evt.RequestID != "req-1" {
		t.Errorf("admin received wrong event: %+v", evt)
	}
	if evt := recvEvent(t, super); evt.BarangayID != "barangay-a" {
		t.Errorf("superadmin received wrong event: %+v", evt)
	}

	// The hub dispatches in publish order, so if the foreign admin's first
	// event is the barangay-b one, the barangay-a event was filtered out.
	hub.Publish(Event{Type: EventRequestsChanged, BarangayID: "barangay-b", RequestID: "req-2"})
	if evt := recvEvent(t, foreign); evt.BarangayID != "barangay-b" || evt.RequestID != "req-2" {
		t.Errorf("foreign admin received a foreign barangay's event first: %+v", evt)
	}
	if evt := recvEvent(t, super); evt.BarangayID != "barangay-b" {
		t.Errorf("superadmin missed the second event: %+v", evt)
	}
}

func TestHubUnregisterStopsDelivery(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := registerClient(t, hub, "barangay-a", model.RoleAdmin)
	hub.unregister <- client

	hub.Publish(Event{Type: EventRequestsChanged, BarangayID: "barangay-a"})

	select {
	case _, ok := <-client.Send:
		if ok {
			t.Error("unregistered client still received an event")
		}
	case <-time.After(2 * time.Second):
		t.Error("send channel not closed after unregister")
	}
}

func TestNilHubPublishIsNoOp(t *testing.T) {
	var hub *Hub
	// Services run without a hub in tests; publishing must not panic.
	hub.Publish(Event{Type: EventRequestsChanged, BarangayID: "barangay-a"})
}
