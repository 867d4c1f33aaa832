package cache

import (
	"testing"
	"time"

	"verifyimage/models"
)

func TestSetValueDoesNotMutateHandedOutSession(t *testing.T) {
	c := NewSessionCache()
	c.Add(models.Session{ID: "abc", ExpiresAt: time.Now().Add(time.Hour)})

	before, ok := c.Find("abc")
	if !ok {
		t.Fatalf("expected cached session")
	}
	if !c.SetValue("abc", "tntcon", "v1") {
		t.Fatalf("expected SetValue to hit cached session")
	}

	if _, ok := before.Values["tntcon"]; ok {
		t.Fatalf("previously returned session was mutated")
	}
	after, _ := c.Find("abc")
	if after.Values["tntcon"] != "v1" {
		t.Fatalf("expected v1, got %q", after.Values["tntcon"])
	}
}

func TestSetValueMissingSession(t *testing.T) {
	c := NewSessionCache()
	if c.SetValue("missing", "tntcon", "v") {
		t.Fatalf("expected SetValue to report miss")
	}
	if c.Len() != 0 {
		t.Fatalf("expected empty cache, got %d", c.Len())
	}
}

func TestDelete(t *testing.T) {
	c := NewSessionCache()
	c.Add(models.Session{ID: "abc"})
	c.Delete("abc")
	if _, ok := c.Find("abc"); ok {
		t.Fatalf("expected session to be deleted")
	}
}

func TestDeleteExpiredDropsOnlyExpired(t *testing.T) {
	c := NewSessionCache()
	now := time.Now()
	c.Add(models.Session{ID: "old-1", ExpiresAt: now.Add(-time.Minute)})
	c.Add(models.Session{ID: "old-2", ExpiresAt: now.Add(-time.Second)})
	c.Add(models.Session{ID: "live", ExpiresAt: now.Add(time.Hour)})

	if n := c.DeleteExpired(now); n != 2 {
		t.Fatalf("expected 2 expired sessions dropped, got %d", n)
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 cached session left, got %d", c.Len())
	}
	if _, ok := c.Find("live"); !ok {
		t.Fatalf("expected live session to stay cached")
	}
}
