package persistence

import "fmt"

// Signer computes the opaque "Veritas signature" integrity token
// attached to persisted artifacts. The algorithm is explicitly out of
// scope (spec.md §9 open questions); callers may substitute a real
// signing scheme without touching the rest of the adapter.
type Signer interface {
	Sign(id string) string
}

// StubSigner is the default Signer: a clearly-labeled placeholder, not
// a cryptographic signature.
type StubSigner struct{}

// Sign returns a deterministic, non-cryptographic stand-in token.
func (StubSigner) Sign(id string) string {
	return fmt.Sprintf("veritas-stub:%s", id)
}
