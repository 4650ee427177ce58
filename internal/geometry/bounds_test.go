package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCenter(t *testing.T) {
	b := NewBox([3]float64{-2, 0, 4}, [3]float64{2, 8, 6})
	assert.Equal(t, [3]float64{0, 4, 5}, b.Center())
}

func TestOctant(t *testing.T) {
	parent := NewBox([3]float64{-1, -1, -1}, [3]float64{1, 1, 1})

	t.Run("bit semantics", func(t *testing.T) {
		// bit 2 = upper x, bit 1 = upper y, bit 0 = upper z
		assert.Equal(t, NewBox([3]float64{-1, -1, -1}, [3]float64{0, 0, 0}), parent.Octant(0))
		assert.Equal(t, NewBox([3]float64{-1, -1, 0}, [3]float64{0, 0, 1}), parent.Octant(1))
		assert.Equal(t, NewBox([3]float64{-1, 0, -1}, [3]float64{0, 1, 0}), parent.Octant(2))
		assert.Equal(t, NewBox([3]float64{0, -1, -1}, [3]float64{1, 0, 0}), parent.Octant(4))
		assert.Equal(t, NewBox([3]float64{0, 0, 0}, [3]float64{1, 1, 1}), parent.Octant(7))
	})

	t.Run("children tile the parent exactly", func(t *testing.T) {
		// Every child face must be either a parent face or the center
		// plane, with no epsilon drift.
		c := parent.Center()
		for i := 0; i < 8; i++ {
			o := parent.Octant(i)
			for axis := 0; axis < 3; axis++ {
				require.LessOrEqual(t, o.Min[axis], o.Max[axis])
				if o.Min[axis] != parent.Min[axis] {
					assert.Equal(t, c[axis], o.Min[axis], "octant %d axis %d lower face", i, axis)
				}
				if o.Max[axis] != parent.Max[axis] {
					assert.Equal(t, c[axis], o.Max[axis], "octant %d axis %d upper face", i, axis)
				}
			}
		}
	})

	t.Run("siblings are disjoint except on shared faces", func(t *testing.T) {
		for i := 0; i < 8; i++ {
			for j := i + 1; j < 8; j++ {
				a, b := parent.Octant(i), parent.Octant(j)
				// Differing index bits force at least one axis where
				// the boxes touch only at the center plane.
				touching := false
				for axis, bit := range [3]int{4, 2, 1} {
					if (i^j)&bit != 0 {
						assert.True(t, a.Max[axis] == b.Min[axis] || b.Max[axis] == a.Min[axis])
						touching = true
					}
				}
				require.True(t, touching)
			}
		}
	})

	t.Run("interior points land in exactly one octant", func(t *testing.T) {
		probes := [][3]float64{
			{-0.5, -0.5, -0.5}, {0.5, 0.5, 0.5}, {-0.5, 0.5, -0.5}, {0.25, -0.75, 0.1},
		}
		for _, p := range probes {
			owners := 0
			for i := 0; i < 8; i++ {
				if parent.Octant(i).Contains(p) {
					owners++
				}
			}
			assert.Equal(t, 1, owners, "probe %v", p)
		}
	})

	t.Run("index out of range panics", func(t *testing.T) {
		assert.Panics(t, func() { parent.Octant(8) })
		assert.Panics(t, func() { parent.Octant(-1) })
	})
}

func TestContainsInclusiveBounds(t *testing.T) {
	b := NewBox([3]float64{0, 0, 0}, [3]float64{1, 1, 1})

	assert.True(t, b.Contains([3]float64{0, 0, 0}), "min corner is inside")
	assert.True(t, b.Contains([3]float64{1, 1, 1}), "max corner is inside")
	assert.True(t, b.Contains([3]float64{0.5, 1, 0}), "face point is inside")
	assert.False(t, b.Contains([3]float64{1.0000001, 0.5, 0.5}))
	assert.False(t, b.Contains([3]float64{0.5, -0.1, 0.5}))
}

func TestSharedFacePointBelongsToBothSiblings(t *testing.T) {
	// Inclusive bounds on both sides: a point on the center plane is
	// contained by every adjacent octant. Accepted behavior, the
	// builder's parent/child queries are independent passes.
	parent := NewBox([3]float64{-1, -1, -1}, [3]float64{1, 1, 1})
	onPlane := [3]float64{0, -0.5, -0.5}

	assert.True(t, parent.Octant(0).Contains(onPlane))
	assert.True(t, parent.Octant(4).Contains(onPlane))
}

func TestPadded(t *testing.T) {
	t.Run("expands on every axis", func(t *testing.T) {
		b := NewBox([3]float64{-10, 0, 5}, [3]float64{10, 20, 10})
		p := b.Padded(0.1)
		assert.Equal(t, NewBox([3]float64{-12, -2, 4.5}, [3]float64{12, 22, 10.5}), p)
	})

	t.Run("negative coordinates still grow outward", func(t *testing.T) {
		b := NewBox([3]float64{-100, -100, -100}, [3]float64{-50, -50, -50})
		p := b.Padded(0.1)
		for i := 0; i < 3; i++ {
			assert.Less(t, p.Min[i], b.Min[i])
			assert.Greater(t, p.Max[i], b.Max[i])
		}
	})

	t.Run("degenerate box unchanged", func(t *testing.T) {
		b := NewBox([3]float64{3, 3, 3}, [3]float64{3, 3, 3})
		assert.Equal(t, b, b.Padded(0.1))
	})
}
