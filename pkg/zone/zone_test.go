package zone

import "testing"

func TestZoneContains(t *testing.T) {
	z := New(NewWorldPoint(2893, 3558, 0), NewWorldPoint(2904, 3569, 0))

	tests := []struct {
		name     string
		point    WorldPoint
		expected bool
	}{
		{"inside", NewWorldPoint(2900, 3560, 0), true},
		{"min corner inclusive", NewWorldPoint(2893, 3558, 0), true},
		{"max corner inclusive", NewWorldPoint(2904, 3569, 0), true},
		{"west edge", NewWorldPoint(2893, 3560, 0), true},
		{"east edge", NewWorldPoint(2904, 3560, 0), true},
		{"one west of zone", NewWorldPoint(2892, 3560, 0), false},
		{"one east of zone", NewWorldPoint(2905, 3560, 0), false},
		{"one south of zone", NewWorldPoint(2900, 3557, 0), false},
		{"one north of zone", NewWorldPoint(2900, 3570, 0), false},
		{"wrong plane", NewWorldPoint(2900, 3560, 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := z.Contains(tt.point); got != tt.expected {
				t.Errorf("Contains(%v) = %v, want %v", tt.point, got, tt.expected)
			}
		})
	}
}

func TestZoneNormalizesCorners(t *testing.T) {
	// Corners given north-east first
	z := New(NewWorldPoint(2904, 3569, 0), NewWorldPoint(2893, 3558, 0))
	if !z.Contains(NewWorldPoint(2900, 3560, 0)) {
		t.Error("zone with swapped corners should still contain interior points")
	}
	if z.MinX != 2893 || z.MaxX != 2904 {
		t.Errorf("corners not normalized: minX=%d maxX=%d", z.MinX, z.MaxX)
	}
}

func TestZoneSingleTile(t *testing.T) {
	p := NewWorldPoint(2907, 3542, 1)
	z := NewSingle(p)
	if !z.Contains(p) {
		t.Error("single-tile zone should contain its own tile")
	}
	if z.Contains(NewWorldPoint(2907, 3542, 0)) {
		t.Error("single-tile zone should not match a different plane")
	}
}

func TestZoneSpansPlanes(t *testing.T) {
	z := New(NewWorldPoint(3200, 3200, 0), NewWorldPoint(3210, 3210, 2))
	for plane := 0; plane <= 2; plane++ {
		if !z.Contains(NewWorldPoint(3205, 3205, plane)) {
			t.Errorf("zone spanning planes 0-2 should contain plane %d", plane)
		}
	}
	if z.Contains(NewWorldPoint(3205, 3205, 3)) {
		t.Error("zone should not contain plane above its range")
	}
}
