// Package captcha implements one-time login challenges: a short random
// answer stored under an opaque token with a time-to-live, consumed exactly
// once on validation. Rendering the challenge as an image is left to an
// injected renderer; this package only owns the answer lifecycle.
package captcha

import (
	"fmt"
	"strings"
	"time"

	"github.com/GoContent-Admin/GoContent-Admin/internal/uniuri"
)

const (
	// DefaultTTL is how long a generated challenge stays valid.
	DefaultTTL = 5 * time.Minute
	// DefaultLength is the answer length.
	DefaultLength = 4
	// tokenLength is the length of the opaque challenge token.
	tokenLength = 32
)

// Alphabet holds the answer characters. Confusable glyphs (0/O, 1/I/L,
// 2/Z, 5/S, 6/G, 8/B) are excluded.
var Alphabet = []byte("34679ACDEFHJKLMNPQRTUVWXY")

// RenderFunc turns an answer into challenge image bytes. The gate treats the
// renderer as an opaque external collaborator.
type RenderFunc func(answer string) ([]byte, error)

// PlainTextRenderer returns the answer itself as bytes. It is a placeholder
// for dev setups and tests; production wires a real image renderer.
func PlainTextRenderer(answer string) ([]byte, error) {
	return []byte(answer), nil
}

// Gate issues and validates one-time challenges.
type Gate struct {
	store  Store
	render RenderFunc
	ttl    time.Duration
	length int
}

// NewGate creates a Gate over the given store and renderer.
// A nil renderer falls back to PlainTextRenderer.
func NewGate(store Store, render RenderFunc, ttl time.Duration, length int) *Gate {
	if store == nil {
		panic("captcha: store is nil")
	}

	if render == nil {
		render = PlainTextRenderer
	}

	if ttl <= 0 {
		ttl = DefaultTTL
	}

	if length <= 0 {
		length = DefaultLength
	}

	return &Gate{store: store, render: render, ttl: ttl, length: length}
}

// Generate draws a fresh answer, stores it under a new token and renders the
// challenge. The answer never leaves the store.
func (g *Gate) Generate() (image []byte, token string, err error) {
	answer := uniuri.NewLenChars(g.length, Alphabet)
	token = uniuri.NewLen(tokenLength)

	if err = g.store.Set(token, []byte(answer), g.ttl); err != nil {
		return nil, "", fmt.Errorf("store captcha challenge: %w", err)
	}

	image, err = g.render(answer)
	if err != nil {
		return nil, "", fmt.Errorf("render captcha challenge: %w", err)
	}

	return image, token, nil
}

// Validate consumes the challenge behind token and compares the answer,
// trimmed and case-insensitively. The entry is removed no matter whether the
// answer matches, so a token reused after a first validation always fails.
func (g *Gate) Validate(answer, token string) bool {
	if token == "" {
		return false
	}

	stored, ok, err := g.store.TakeOnce(token)
	if err != nil || !ok {
		return false
	}

	return strings.EqualFold(strings.TrimSpace(answer), string(stored))
}
