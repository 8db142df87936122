package block

// Direction is one of the six axis-aligned unit directions. The numeric
// values match the host protocol's face ordering and must not change.
type Direction uint8

const (
	West Direction = iota
	East
	Down
	Up
	North
	South
)

// IVec3 is an integer 3-vector in block coordinates (x, y, z).
type IVec3 [3]int32

// Add returns the component-wise sum of v and w.
func (v IVec3) Add(w IVec3) IVec3 {
	return IVec3{v[0] + w[0], v[1] + w[1], v[2] + w[2]}
}

// directionVectors holds the unit vector for each direction, indexed by
// the Direction value.
var directionVectors = [6]IVec3{
	{-1, 0, 0}, // West
	{1, 0, 0},  // East
	{0, -1, 0}, // Down
	{0, 1, 0},  // Up
	{0, 0, -1}, // North
	{0, 0, 1},  // South
}

// Directions lists all six directions in their canonical order.
var Directions = [6]Direction{West, East, Down, Up, North, South}

// Vec returns the unit vector for the direction.
func (d Direction) Vec() IVec3 {
	return directionVectors[d]
}

// Opposite returns the direction facing the other way.
func (d Direction) Opposite() Direction {
	switch d {
	case West:
		return East
	case East:
		return West
	case Down:
		return Up
	case Up:
		return Down
	case North:
		return South
	case South:
		return North
	default:
		return d
	}
}

// String returns a human-readable name for the direction.
func (d Direction) String() string {
	switch d {
	case West:
		return "West"
	case East:
		return "East"
	case Down:
		return "Down"
	case Up:
		return "Up"
	case North:
		return "North"
	case South:
		return "South"
	default:
		return "Unknown"
	}
}
