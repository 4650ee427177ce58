// Package octree builds the on-disk LOD hierarchy: a directory of
// fixed-format binary node files, one per visited octree node, that a
// renderer loads progressively by parsing file names alone.
package octree

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/NarendraaP/Epistemic-Engine/internal/catalog"
)

// Node file wire format, little-endian:
//
//	header: int32 point count n (n >= 0)
//	body:   n records of exactly 20 bytes each:
//	        float32 x, y, z (meters), float32 magnitude,
//	        int32 provenance code (0=OBSERVED, 1=INFERRED, 2=SIMULATED)
//
// A valid file is therefore always 4 + 20*n bytes. n=0 is legal and
// means a spatially empty region.
const (
	HeaderSize = 4
	RecordSize = 20
)

func floatBits(f float32) uint32 { return math.Float32bits(f) }
func bitsFloat(b uint32) float32 { return math.Float32frombits(b) }

// ErrCorruptRecord marks a node file whose header or body violates the
// wire format. A negative count is corruption, never an empty node.
var ErrCorruptRecord = errors.New("octree: corrupt node record")

// Encode writes the node file for the given points. Every point must
// carry a valid provenance; there is no fallback code on the write
// path.
func Encode(w io.Writer, points []catalog.Point) error {
	var header [HeaderSize]byte
	binary.LittleEndian.PutUint32(header[:], uint32(int32(len(points))))
	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	var rec [RecordSize]byte
	for _, p := range points {
		if !p.Provenance.Valid() {
			return fmt.Errorf("octree: point %d has unmapped provenance %d", p.ID, int32(p.Provenance))
		}
		binary.LittleEndian.PutUint32(rec[0:], floatBits(float32(p.X)))
		binary.LittleEndian.PutUint32(rec[4:], floatBits(float32(p.Y)))
		binary.LittleEndian.PutUint32(rec[8:], floatBits(float32(p.Z)))
		binary.LittleEndian.PutUint32(rec[12:], floatBits(p.Magnitude))
		binary.LittleEndian.PutUint32(rec[16:], uint32(int32(p.Provenance)))
		if _, err := w.Write(rec[:]); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}
	return nil
}

// Decode reads one node file back into points. IDs are not part of the
// wire format and come back zero. A negative header count or an
// out-of-range provenance code is reported as ErrCorruptRecord.
func Decode(r io.Reader) ([]catalog.Point, error) {
	var header [HeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("%w: short header: %v", ErrCorruptRecord, err)
	}
	n := int32(binary.LittleEndian.Uint32(header[:]))
	if n < 0 {
		return nil, fmt.Errorf("%w: negative point count %d", ErrCorruptRecord, n)
	}

	points := make([]catalog.Point, 0, n)
	var rec [RecordSize]byte
	for i := int32(0); i < n; i++ {
		if _, err := io.ReadFull(r, rec[:]); err != nil {
			return nil, fmt.Errorf("%w: truncated body at record %d of %d: %v", ErrCorruptRecord, i, n, err)
		}
		code := int32(binary.LittleEndian.Uint32(rec[16:]))
		p := catalog.Point{
			X:          float64(bitsFloat(binary.LittleEndian.Uint32(rec[0:]))),
			Y:          float64(bitsFloat(binary.LittleEndian.Uint32(rec[4:]))),
			Z:          float64(bitsFloat(binary.LittleEndian.Uint32(rec[8:]))),
			Magnitude:  bitsFloat(binary.LittleEndian.Uint32(rec[12:])),
			Provenance: catalog.Provenance(code),
		}
		if !p.Provenance.Valid() {
			return nil, fmt.Errorf("%w: provenance code %d at record %d", ErrCorruptRecord, code, i)
		}
		points = append(points, p)
	}
	return points, nil
}
