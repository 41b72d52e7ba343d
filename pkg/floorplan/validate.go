package floorplan

import "fmt"

// Validate checks referential integrity of the plan. Geometric degeneracies
// (zero-length segments, out-of-bounds doors) are not errors here; the wall
// synthesizer skips those per element so siblings still render.
func (p *Plan) Validate() error {
	roomIDs := make(map[string]bool, len(p.Rooms))
	for _, r := range p.Rooms {
		if r.ID == "" {
			return fmt.Errorf("room %q has empty id", r.Name)
		}
		if roomIDs[r.ID] {
			return fmt.Errorf("duplicate room id %q", r.ID)
		}
		roomIDs[r.ID] = true
	}

	segIDs := make(map[string]bool, len(p.Segments))
	for _, s := range p.Segments {
		if s.ID == "" {
			return fmt.Errorf("wall segment with empty id (room %q)", s.RoomID)
		}
		if segIDs[s.ID] {
			return fmt.Errorf("duplicate wall segment id %q", s.ID)
		}
		segIDs[s.ID] = true

		if s.A < 0 || s.A >= len(p.Vertices) || s.B < 0 || s.B >= len(p.Vertices) {
			return fmt.Errorf("wall segment %q references vertex out of range [0,%d)", s.ID, len(p.Vertices))
		}
		if s.RoomID != "" && !roomIDs[s.RoomID] {
			return fmt.Errorf("wall segment %q references unknown room %q", s.ID, s.RoomID)
		}

		doorIDs := make(map[string]bool, len(s.Doors))
		for _, d := range s.Doors {
			if d.ID == "" {
				return fmt.Errorf("wall segment %q has a door with empty id", s.ID)
			}
			if doorIDs[d.ID] {
				return fmt.Errorf("wall segment %q has duplicate door id %q", s.ID, d.ID)
			}
			doorIDs[d.ID] = true
			if d.Width <= 0 || d.Height <= 0 {
				return fmt.Errorf("door %q on segment %q has non-positive size", d.ID, s.ID)
			}
		}
	}

	return nil
}
