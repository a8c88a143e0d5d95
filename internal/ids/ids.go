// Package ids generates the record identifiers used as storage keys:
// <prefix>_<unix-millis>_<9-char base36 suffix>, e.g.
// lead_1712345678901_k3x9q0m2p.
package ids

import (
	"crypto/rand"
	"fmt"
	"time"
)

const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

const suffixLen = 9

// New returns a fresh identifier with the given prefix.
func New(prefix string) string {
	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().UnixMilli(), suffix())
}

func suffix() string {
	raw := make([]byte, suffixLen)
	if _, err := rand.Read(raw); err != nil {
		// crypto/rand never fails on supported platforms; fall back to
		// a time-derived suffix rather than panicking in a tracker.
		ns := time.Now().UnixNano()
		for i := range raw {
			raw[i] = byte(ns >> (i * 7))
		}
	}
	out := make([]byte, suffixLen)
	for i, b := range raw {
		out[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(out)
}
