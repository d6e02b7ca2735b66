package idgen

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy exhausted")
}

func TestUUIDGenerator_Format(t *testing.T) {
	id := UUIDGenerator{}.Generate()
	require.Len(t, id, 36)

	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), parsed.Version())
}

func TestUUIDGenerator_Unique(t *testing.T) {
	g := UUIDGenerator{}
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := g.Generate()
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestUUIDGenerator_FallbackOnSourceFailure(t *testing.T) {
	fixed := time.UnixMilli(1700000000000)
	g := UUIDGenerator{
		Source: failingReader{},
		Now:    func() time.Time { return fixed },
	}

	id := g.Generate()

	pattern := regexp.MustCompile(`^id-[0-9a-z]+-[0-9a-z]{8}$`)
	require.Regexp(t, pattern, id)

	parts := strings.Split(id, "-")
	ms, err := strconv.ParseInt(parts[1], 36, 64)
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000000), ms)
}

func TestUUIDGenerator_FallbackUnique(t *testing.T) {
	g := UUIDGenerator{Source: failingReader{}}
	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		id := g.Generate()
		require.False(t, seen[id], "duplicate fallback id %s", id)
		seen[id] = true
	}
}
