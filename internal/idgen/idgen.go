// Package idgen generates task identifiers.
package idgen

import (
	"crypto/rand"
	"io"
	"log/slog"
	mrand "math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Generator produces task identifiers.
// Generate never fails and must not repeat a value within a process
// lifetime (with overwhelming probability).
type Generator interface {
	Generate() string
}

// fallbackSuffixLen is the length of the base-36 random suffix used when the
// secure source is unavailable.
const fallbackSuffixLen = 8

// UUIDGenerator generates random (version 4) UUIDs.
//
// Random bytes are read from Source, defaulting to crypto/rand. If reading
// fails, Generate degrades to a timestamp-plus-random id of the form
// "id-<ms base36>-<suffix base36>" instead of returning an error.
//
// Thread-safety: UUIDGenerator is stateless and safe for concurrent use.
type UUIDGenerator struct {
	// Source overrides the random source (for testing).
	Source io.Reader

	// Now overrides the wall clock used by the fallback (for testing).
	Now func() time.Time
}

// Generate returns a hyphenated UUID string, e.g.
// "550e8400-e29b-41d4-a716-446655440000" (36 characters).
func (g UUIDGenerator) Generate() string {
	src := g.Source
	if src == nil {
		src = rand.Reader
	}
	id, err := uuid.NewRandomFromReader(src)
	if err == nil {
		return id.String()
	}
	slog.Warn("secure random source unavailable, using fallback id", "error", err)
	return g.fallback()
}

func (g UUIDGenerator) fallback() string {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	return "id-" + strconv.FormatInt(now().UnixMilli(), 36) + "-" + randomBase36(fallbackSuffixLen)
}

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

func randomBase36(n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(base36[mrand.Intn(len(base36))])
	}
	return b.String()
}
