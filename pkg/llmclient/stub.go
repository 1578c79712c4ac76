package llmclient

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// StubCompleter is a deterministic test double: the same (system, user,
// model) always produces the same response text, so a forced
// re-generation still collides to the same content_hash (spec.md §8
// scenario 6). It never calls out to the network.
type StubCompleter struct {
	// ResponsePrefix is prepended to the deterministic digest, useful for
	// telling apart responses from different stub instances in a test.
	ResponsePrefix string
}

// NewStubCompleter returns a StubCompleter with no prefix.
func NewStubCompleter() *StubCompleter {
	return &StubCompleter{}
}

// Chat returns a response whose text is a deterministic function of its
// inputs: SHA-256(system || "\x00" || user || "\x00" || model), hex-encoded.
// Token counts are derived from input lengths so they're stable too.
func (c *StubCompleter) Chat(_ context.Context, system, user string, opts ModelOptions) (Response, error) {
	h := sha256.New()
	h.Write([]byte(system))
	h.Write([]byte{0})
	h.Write([]byte(user))
	h.Write([]byte{0})
	h.Write([]byte(opts.Model))
	digest := hex.EncodeToString(h.Sum(nil))

	text := digest
	if c.ResponsePrefix != "" {
		text = fmt.Sprintf("%s:%s", c.ResponsePrefix, digest)
	}

	return Response{
		Text:                 text,
		TotalDurationSeconds: 0.001,
		InputTokens:          len(system)/4 + len(user)/4,
		OutputTokens:         len(text) / 4,
	}, nil
}
