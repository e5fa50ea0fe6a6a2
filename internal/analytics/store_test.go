package analytics

import (
	"fmt"
	"testing"
)

func TestTrackValidation(t *testing.T) {
	s := NewStore(10)

	if _, err := s.Track([]Event{{Event: "", Properties: map[string]any{}}}); err == nil {
		t.Error("expected error for missing event name")
	}
	if _, err := s.Track([]Event{{Event: "product_viewed"}}); err == nil {
		t.Error("expected error for missing properties")
	}
	if s.Len() != 0 {
		t.Errorf("rejected batch should store nothing, have %d", s.Len())
	}
}

func TestTrackStampsEvents(t *testing.T) {
	s := NewStore(10)

	n, err := s.Track([]Event{
		{Event: "product_viewed", Properties: map[string]any{"productId": "p1"}},
		{Event: "checkout_started", Properties: map[string]any{"cartValue": 99.98}, SessionID: "sess-1"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("processed = %d, want 2", n)
	}

	got := s.Recent("", 10)
	if len(got) != 2 {
		t.Fatalf("stored = %d, want 2", len(got))
	}
	// newest first
	if got[0].Event != "checkout_started" {
		t.Errorf("order wrong: %s first", got[0].Event)
	}
	if got[0].SessionID != "sess-1" {
		t.Errorf("explicit sessionId overwritten: %q", got[0].SessionID)
	}
	if got[1].SessionID == "" || got[1].Timestamp == "" {
		t.Errorf("missing generated stamp: %+v", got[1])
	}
}

func TestCapacityTrimsOldestFirst(t *testing.T) {
	s := NewStore(5)

	for i := 0; i < 8; i++ {
		_, err := s.Track([]Event{{
			Event:      fmt.Sprintf("ev-%d", i),
			Properties: map[string]any{},
		}})
		if err != nil {
			t.Fatal(err)
		}
	}

	if s.Len() != 5 {
		t.Fatalf("len = %d, want 5", s.Len())
	}
	got := s.Recent("", 10)
	if got[0].Event != "ev-7" || got[len(got)-1].Event != "ev-3" {
		t.Errorf("wrong window: newest=%s oldest=%s", got[0].Event, got[len(got)-1].Event)
	}
}

func TestRecentFilter(t *testing.T) {
	s := NewStore(10)
	_, _ = s.Track([]Event{
		{Event: "product_viewed", Properties: map[string]any{}},
		{Event: "cart_viewed", Properties: map[string]any{}},
		{Event: "product_viewed", Properties: map[string]any{}},
	})

	got := s.Recent("product_viewed", 10)
	if len(got) != 2 {
		t.Fatalf("filtered = %d, want 2", len(got))
	}
	for _, ev := range got {
		if ev.Event != "product_viewed" {
			t.Errorf("filter leaked %s", ev.Event)
		}
	}
}
