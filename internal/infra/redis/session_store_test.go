package redis

import (
	"testing"
	"time"

	"trivia-session-service/internal/app"
	miniredis "github.com/alicebob/miniredis/v2"
)

func TestSessionStoreSetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewSessionStore(newClient(mr), time.Minute, app.DefaultTiming())

	_ = store.GetOrCreate("s1")
	if !mr.Exists("trivia:session:s1") {
		t.Fatalf("expected redis liveness key to be set")
	}

	store.Delete("s1")
	if mr.Exists("trivia:session:s1") {
		t.Fatalf("expected redis key to be removed")
	}
	if _, ok := store.Get("s1"); ok {
		t.Fatalf("expected session removed from local map")
	}
}
