package core

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestHubBroadcastAndUnregister(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	hub := NewHub()
	go hub.Run(ctx)

	alice := NewClient("a", "alice", false)
	bob := NewClient("b", "bob", false)
	hub.RegisterClient(alice)
	hub.RegisterClient(bob)

	hist := mustEvent(t, bob.Events, EventHistory)
	if len(hist.Entries) != 0 {
		t.Fatalf("expected empty history, got %+v", hist.Entries)
	}
	mustEvent(t, alice.Events, EventHistory)

	if err := hub.Publish(ctx, testEntry("Rochelle", "need ammo", false)); err != nil {
		t.Fatalf("publish: %v", err)
	}

	ev := mustEvent(t, bob.Events, EventEntry)
	if ev.Entry.Player != "Rochelle" || ev.Entry.Translated != "need ammo" {
		t.Fatalf("unexpected entry event: %+v", ev)
	}
	mustEvent(t, alice.Events, EventEntry)

	hub.UnregisterClient(alice)
	select {
	case _, ok := <-alice.Events:
		if ok {
			t.Fatal("expected alice channel to be closed")
		}
	case <-time.After(time.Second):
		t.Fatal("alice channel not closed")
	}

	// Double unregister is a no-op.
	hub.UnregisterClient(alice)
}

func TestHubHistoryKeepsLastEntries(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	hub := NewHub(WithMaxEntries(2))
	go hub.Run(ctx)

	for _, text := range []string{"one", "two", "three"} {
		if err := hub.Publish(ctx, testEntry("Nick", text, false)); err != nil {
			t.Fatalf("publish: %v", err)
		}
	}

	recent, err := hub.Recent(ctx)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 || recent[0].Original != "two" || recent[1].Original != "three" {
		t.Fatalf("unexpected recent entries: %+v", recent)
	}

	late := NewClient("late", "", false)
	hub.RegisterClient(late)
	ev := mustEvent(t, late.Events, EventHistory)
	if len(ev.Entries) != 2 || ev.Entries[1].Original != "three" {
		t.Fatalf("unexpected history: %+v", ev.Entries)
	}
}

func TestHubDropsExpiredEntries(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var mu sync.Mutex
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}

	hub := NewHub(WithHubClock(clock))
	go hub.Run(ctx)

	old := testEntry("Ellis", "old", false)
	old.ExpiresAt = now.Add(10 * time.Second)
	fresh := testEntry("Ellis", "fresh", false)
	fresh.ExpiresAt = now.Add(30 * time.Second)
	forever := testEntry("Ellis", "forever", false)

	for _, e := range []Entry{old, fresh, forever} {
		if err := hub.Publish(ctx, e); err != nil {
			t.Fatalf("publish: %v", err)
		}
	}

	mu.Lock()
	now = now.Add(15 * time.Second)
	mu.Unlock()

	recent, err := hub.Recent(ctx)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 || recent[0].Original != "fresh" || recent[1].Original != "forever" {
		t.Fatalf("unexpected recent entries: %+v", recent)
	}
}

func TestHubTeamOnlyClients(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	hub := NewHub()
	go hub.Run(ctx)

	if err := hub.Publish(ctx, testEntry("Coach", "all chat", false)); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := hub.Publish(ctx, testEntry("Coach", "team chat", true)); err != nil {
		t.Fatalf("publish: %v", err)
	}

	team := NewClient("t", "", true)
	hub.RegisterClient(team)
	hist := mustEvent(t, team.Events, EventHistory)
	if len(hist.Entries) != 1 || hist.Entries[0].Original != "team chat" {
		t.Fatalf("unexpected team history: %+v", hist.Entries)
	}

	if err := hub.Publish(ctx, testEntry("Coach", "public again", false)); err != nil {
		t.Fatalf("publish: %v", err)
	}
	noEvent(t, team.Events)

	if err := hub.Publish(ctx, testEntry("Coach", "team again", true)); err != nil {
		t.Fatalf("publish: %v", err)
	}
	ev := mustEvent(t, team.Events, EventEntry)
	if ev.Entry.Original != "team again" {
		t.Fatalf("unexpected entry: %+v", ev.Entry)
	}
}

func TestHubSlowConsumerDoesNotBlock(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	hub := NewHub()
	go hub.Run(ctx)

	slow := NewClient("slow", "", false)
	hub.RegisterClient(slow)

	for i := range 100 {
		if err := hub.Publish(ctx, testEntry("Zoey", string(rune('a'+i%26)), false)); err != nil {
			t.Fatalf("publish %d: %v", i, err)
		}
	}
	if _, err := hub.Recent(ctx); err != nil {
		t.Fatalf("hub blocked by slow consumer: %v", err)
	}
}

func TestHubStopClosesClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	hub := NewHub()
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	c := NewClient("c", "", false)
	hub.RegisterClient(c)
	mustEvent(t, c.Events, EventHistory)

	cancel()
	<-stopped

	if _, ok := <-c.Events; ok {
		t.Fatal("expected closed channel after stop")
	}
	if err := hub.Publish(context.Background(), testEntry("Bill", "late", false)); err != ErrHubClosed {
		t.Fatalf("expected ErrHubClosed, got %v", err)
	}

	after := NewClient("after", "", false)
	hub.RegisterClient(after)
	if _, ok := <-after.Events; ok {
		t.Fatal("expected closed channel for client registered after stop")
	}
}
