// Package geometry provides the axis-aligned bounding boxes the octree
// builder subdivides. All arithmetic is exact midpoint math so that the
// eight octants of a box tile it with no gaps and no interior overlap.
package geometry

import "fmt"

// Box is an axis-aligned bounding box. Min[i] <= Max[i] on every axis.
type Box struct {
	Min [3]float64
	Max [3]float64
}

// NewBox returns a box spanning the given corners.
func NewBox(min, max [3]float64) Box {
	return Box{Min: min, Max: max}
}

// Center returns the per-axis midpoint.
func (b Box) Center() [3]float64 {
	return [3]float64{
		(b.Min[0] + b.Max[0]) / 2,
		(b.Min[1] + b.Max[1]) / 2,
		(b.Min[2] + b.Max[2]) / 2,
	}
}

// Octant returns the sub-box covering one of the 8 subdivisions about
// the center. The index is read as 3 bits: bit 2 selects the upper X
// half, bit 1 the upper Y half, bit 0 the upper Z half.
//
//	0 (000): -x -y -z    4 (100): +x -y -z
//	1 (001): -x -y +z    5 (101): +x -y +z
//	2 (010): -x +y -z    6 (110): +x +y -z
//	3 (011): -x +y +z    7 (111): +x +y +z
//
// Because every child face is either a parent face or the shared center
// plane, the 8 octants reconstruct the parent exactly.
func (b Box) Octant(index int) Box {
	if index < 0 || index > 7 {
		panic(fmt.Sprintf("geometry: octant index %d out of range [0,7]", index))
	}
	c := b.Center()
	var o Box
	for axis, bit := range [3]int{4, 2, 1} {
		if index&bit != 0 {
			o.Min[axis], o.Max[axis] = c[axis], b.Max[axis]
		} else {
			o.Min[axis], o.Max[axis] = b.Min[axis], c[axis]
		}
	}
	return o
}

// Contains reports whether p lies inside the box. Both bounds are
// inclusive, so a point on a shared face belongs to every adjacent
// octant. Range queries inherit this convention.
func (b Box) Contains(p [3]float64) bool {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// Extent returns the per-axis side lengths.
func (b Box) Extent() [3]float64 {
	return [3]float64{
		b.Max[0] - b.Min[0],
		b.Max[1] - b.Min[1],
		b.Max[2] - b.Min[2],
	}
}

// Padded returns the box grown by fraction of its extent on each side
// of every axis. A degenerate (zero-extent) box is returned unchanged.
func (b Box) Padded(fraction float64) Box {
	e := b.Extent()
	var p Box
	for i := 0; i < 3; i++ {
		pad := e[i] * fraction
		p.Min[i] = b.Min[i] - pad
		p.Max[i] = b.Max[i] + pad
	}
	return p
}

// IsZero reports whether the box is the zero value.
func (b Box) IsZero() bool {
	return b == Box{}
}
