package assign_test

import (
	"strings"
	"testing"

	"github.com/leadline-hq/leadline/internal/assign"
	"github.com/leadline-hq/leadline/internal/store"
)

type mapStorage map[string]string

func (m mapStorage) Get(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

func (m mapStorage) Set(key, value string) { m[key] = value }

func TestAssign_CreatesAndPersists(t *testing.T) {
	storage := mapStorage{}
	a := assign.New(storage, nil)

	variant, visitorID := a.Assign()

	if variant != store.VariantA && variant != store.VariantB {
		t.Fatalf("variant %q outside {a, b}", variant)
	}
	if !strings.HasPrefix(visitorID, "visitor_") {
		t.Fatalf("visitor id %q missing visitor_ prefix", visitorID)
	}
	if storage[assign.VariantKey] != variant {
		t.Errorf("variant not persisted: %q", storage[assign.VariantKey])
	}
	if storage[assign.VisitorKey] != visitorID {
		t.Errorf("visitor id not persisted: %q", storage[assign.VisitorKey])
	}
}

func TestAssign_Sticky(t *testing.T) {
	storage := mapStorage{}
	a := assign.New(storage, nil)

	variant1, visitor1 := a.Assign()
	for i := 0; i < 20; i++ {
		variant, visitor := a.Assign()
		if variant != variant1 || visitor != visitor1 {
			t.Fatalf("assignment drifted: (%s, %s) then (%s, %s)", variant1, visitor1, variant, visitor)
		}
	}
}

func TestAssign_RedrawsInvalidVariant(t *testing.T) {
	storage := mapStorage{
		assign.VisitorKey: "visitor_123_abcdefghi",
		assign.VariantKey: "c",
	}
	a := assign.New(storage, nil)

	variant, visitorID := a.Assign()
	if variant != store.VariantA && variant != store.VariantB {
		t.Fatalf("invalid variant not redrawn, got %q", variant)
	}
	if visitorID != "visitor_123_abcdefghi" {
		t.Errorf("existing visitor id replaced: %q", visitorID)
	}
}

func TestAssign_ImpressionFiresEveryCall(t *testing.T) {
	storage := mapStorage{}
	var calls []string
	a := assign.New(storage, func(variant, visitorID string) {
		calls = append(calls, variant+":"+visitorID)
	})

	a.Assign()
	a.Assign()
	a.Assign()

	if len(calls) != 3 {
		t.Fatalf("impression hook fired %d times, want 3", len(calls))
	}
	if calls[0] != calls[1] || calls[1] != calls[2] {
		t.Errorf("impression payload not stable across calls: %v", calls)
	}
}
