// Package assign implements sticky visitor/variant assignment. The
// browser script does the same thing against localStorage; this is the
// server-side rendition for cookie-based and no-JS embeds.
package assign

import (
	"math/rand"

	"github.com/leadline-hq/leadline/internal/ids"
	"github.com/leadline-hq/leadline/internal/store"
)

// Storage keys, shared with the client script.
const (
	VisitorKey = "visitor_id"
	VariantKey = "ab_variant"
)

// Storage persists assignment on behalf of a single visitor (cookies
// in the HTTP server, a map in tests).
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// Assignor hands out sticky (variant, visitorID) pairs. OnImpression,
// if set, is invoked once per Assign call; it must not block and its
// outcome never affects the assignment.
type Assignor struct {
	storage      Storage
	onImpression func(variant, visitorID string)
	pick         func() string
}

func New(storage Storage, onImpression func(variant, visitorID string)) *Assignor {
	return &Assignor{
		storage:      storage,
		onImpression: onImpression,
		pick:         randomVariant,
	}
}

// Assign returns the persisted visitor id and variant, creating either
// when absent. A persisted variant outside {a, b} is treated as absent
// and redrawn. Repeated calls with the same storage return the same
// pair; the impression hook still fires on every call, one per page
// view.
func (a *Assignor) Assign() (variant, visitorID string) {
	visitorID, ok := a.storage.Get(VisitorKey)
	if !ok || visitorID == "" {
		visitorID = ids.New("visitor")
		a.storage.Set(VisitorKey, visitorID)
	}

	variant, ok = a.storage.Get(VariantKey)
	if !ok || !validVariant(variant) {
		variant = a.pick()
		a.storage.Set(VariantKey, variant)
	}

	if a.onImpression != nil {
		a.onImpression(variant, visitorID)
	}
	return variant, visitorID
}

func validVariant(v string) bool {
	return v == store.VariantA || v == store.VariantB
}

func randomVariant() string {
	if rand.Intn(2) == 0 {
		return store.VariantA
	}
	return store.VariantB
}
