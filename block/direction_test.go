package block

import "testing"

func TestDirectionVec(t *testing.T) {
	tests := []struct {
		dir  Direction
		want IVec3
	}{
		{West, IVec3{-1, 0, 0}},
		{East, IVec3{1, 0, 0}},
		{Down, IVec3{0, -1, 0}},
		{Up, IVec3{0, 1, 0}},
		{North, IVec3{0, 0, -1}},
		{South, IVec3{0, 0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.dir.String(), func(t *testing.T) {
			if got := tt.dir.Vec(); got != tt.want {
				t.Errorf("%v.Vec() = %v, want %v", tt.dir, got, tt.want)
			}
		})
	}
}

func TestDirectionOpposite(t *testing.T) {
	for _, d := range Directions {
		opp := d.Opposite()
		if opp.Opposite() != d {
			t.Errorf("%v.Opposite().Opposite() = %v, want %v", d, opp.Opposite(), d)
		}

		// Opposite unit vectors must cancel.
		sum := d.Vec().Add(opp.Vec())
		if sum != (IVec3{}) {
			t.Errorf("%v.Vec() + %v.Vec() = %v, want zero", d, opp, sum)
		}
	}
}

func TestDirectionValuesAreStable(t *testing.T) {
	// The numeric values are part of the host protocol.
	want := map[Direction]uint8{West: 0, East: 1, Down: 2, Up: 3, North: 4, South: 5}
	for d, v := range want {
		if uint8(d) != v {
			t.Errorf("%v = %d, want %d", d, uint8(d), v)
		}
	}
}

func TestLightLevel(t *testing.T) {
	l := LightFromSkyAndBlock(15, 7)
	if l.Sky() != 15 {
		t.Errorf("Sky() = %d, want 15", l.Sky())
	}
	if l.Block() != 7 {
		t.Errorf("Block() = %d, want 7", l.Block())
	}

	// Components above the nibble range clamp.
	c := LightFromSkyAndBlock(20, 99)
	if c.Sky() != 15 || c.Block() != 15 {
		t.Errorf("clamped = (%d, %d), want (15, 15)", c.Sky(), c.Block())
	}
}
