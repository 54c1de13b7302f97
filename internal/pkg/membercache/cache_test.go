package membercache

import (
	"testing"
	"time"

	"acem-epargne/internal/adapters/persistence/models"
)

func TestCacheColdMiss(t *testing.T) {
	c := New(time.Minute)
	if got := c.Get(); got != nil {
		t.Errorf("Cold cache must miss, got %v", got)
	}
}

func TestCacheHitAndInvalidate(t *testing.T) {
	c := New(time.Minute)
	c.Set([]models.Member{{Code: "M-00001", Nom: "Mwamba"}})

	got := c.Get()
	if len(got) != 1 || got[0].Code != "M-00001" {
		t.Fatalf("Expected cached snapshot, got %v", got)
	}

	c.Invalidate()
	if got := c.Get(); got != nil {
		t.Errorf("Invalidated cache must miss, got %v", got)
	}
}

func TestCacheTTLExpiry(t *testing.T) {
	c := New(time.Millisecond)
	c.Set([]models.Member{{Code: "M-00001"}})

	time.Sleep(5 * time.Millisecond)
	if got := c.Get(); got != nil {
		t.Errorf("Stale snapshot must miss, got %v", got)
	}
}

func TestCacheReturnsCopy(t *testing.T) {
	c := New(time.Minute)
	c.Set([]models.Member{{Code: "M-00001", Nom: "Mwamba"}})

	first := c.Get()
	first[0].Nom = "modifié"

	second := c.Get()
	if second[0].Nom != "Mwamba" {
		t.Errorf("Caller mutation leaked into the cache: %s", second[0].Nom)
	}
}
