package assets

import (
	"encoding/binary"
	"fmt"
	"io"
	gomath "math"
	"os"

	"github.com/Faultbox/roomforge/internal/engine/picking"
	"github.com/Faultbox/roomforge/pkg/math"
)

// Binary STL layout: an 80-byte header, a uint32 triangle count, then 50
// bytes per triangle (normal, three vertices as little-endian float32 triples,
// and a 2-byte attribute word).
const (
	stlHeaderSize   = 80
	stlTriangleSize = 50
)

// ReadSTLBounds scans a binary STL file and returns the bounding box of its
// vertices. The full mesh is never retained; the planner only needs bounds.
func ReadSTLBounds(path string) (picking.AABB, error) {
	f, err := os.Open(path)
	if err != nil {
		return picking.AABB{}, fmt.Errorf("opening model: %w", err)
	}
	defer f.Close()
	return readSTLBounds(f)
}

func readSTLBounds(r io.Reader) (picking.AABB, error) {
	var header [stlHeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return picking.AABB{}, fmt.Errorf("reading stl header: %w", err)
	}

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return picking.AABB{}, fmt.Errorf("reading triangle count: %w", err)
	}
	if count == 0 {
		return picking.AABB{}, fmt.Errorf("stl has no triangles")
	}

	var (
		tri    [stlTriangleSize]byte
		bounds picking.AABB
	)
	for i := uint32(0); i < count; i++ {
		if _, err := io.ReadFull(r, tri[:]); err != nil {
			return picking.AABB{}, fmt.Errorf("reading triangle %d: %w", i, err)
		}
		// Skip the 12-byte normal; vertices follow.
		for v := 0; v < 3; v++ {
			off := 12 + v*12
			p := math.Vec3{
				X: gomath.Float32frombits(binary.LittleEndian.Uint32(tri[off:])),
				Y: gomath.Float32frombits(binary.LittleEndian.Uint32(tri[off+4:])),
				Z: gomath.Float32frombits(binary.LittleEndian.Uint32(tri[off+8:])),
			}
			if i == 0 && v == 0 {
				bounds = picking.AABB{Min: p, Max: p}
				continue
			}
			bounds.Min = minVec(bounds.Min, p)
			bounds.Max = maxVec(bounds.Max, p)
		}
	}

	return bounds, nil
}
