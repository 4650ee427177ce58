package octree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeName(t *testing.T) {
	// The root keeps the legacy 4-token form; deeper nodes use
	// depth followed by one token per path step.
	assert.Equal(t, "0-0-0-0.bin", NodeName(0, nil))
	assert.Equal(t, "1-3.bin", NodeName(1, []int{3}))
	assert.Equal(t, "2-0-7.bin", NodeName(2, []int{0, 7}))
	assert.Equal(t, "5-1-2-3-4-5.bin", NodeName(5, []int{1, 2, 3, 4, 5}))
}

func TestNodeNameInjective(t *testing.T) {
	seen := map[string]struct{}{}
	paths := [][]int{nil, {0}, {7}, {0, 0}, {0, 7}, {7, 0}, {1, 2, 3}}
	for _, p := range paths {
		name := NodeName(len(p), p)
		_, dup := seen[name]
		require.False(t, dup, "duplicate name %s", name)
		seen[name] = struct{}{}
	}
}

func TestParseNodeName(t *testing.T) {
	t.Run("root", func(t *testing.T) {
		depth, path, err := ParseNodeName("0-0-0-0.bin")
		require.NoError(t, err)
		assert.Equal(t, 0, depth)
		assert.Empty(t, path)
	})

	t.Run("round trip", func(t *testing.T) {
		for _, p := range [][]int{{4}, {0, 7}, {3, 1, 6, 2}} {
			name := NodeName(len(p), p)
			depth, path, err := ParseNodeName(name)
			require.NoError(t, err)
			assert.Equal(t, len(p), depth)
			assert.Equal(t, p, path)
		}
	})

	t.Run("rejects malformed names", func(t *testing.T) {
		for _, name := range []string{
			"octree.bin",   // no tokens
			"1-3",          // missing extension
			"2-1.bin",      // token count does not match depth
			"1-9.bin",      // octant out of range
			"1--2.bin",     // empty token
			"-1-0.bin",     // negative depth
			"1-2-extra.bin",
		} {
			_, _, err := ParseNodeName(name)
			assert.Error(t, err, "name %q", name)
		}
	})
}
