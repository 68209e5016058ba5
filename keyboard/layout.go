package keyboard

import "math"

// Point is a physical key position in key-width units
// X is the column including row stagger, Y is the row from the digit row down
type Point struct {
	X, Y float64
}

// coordinates follows a QWERTY board with typical row stagger
var coordinates = map[Key]Point{
	'1': {0, 0}, '2': {1, 0}, '3': {2, 0}, '4': {3, 0}, '5': {4, 0},
	'6': {5, 0}, '7': {6, 0}, '8': {7, 0}, '9': {8, 0}, '0': {9, 0},

	'Q': {0.5, 1}, 'W': {1.5, 1}, 'E': {2.5, 1}, 'R': {3.5, 1}, 'T': {4.5, 1},
	'Y': {5.5, 1}, 'U': {6.5, 1}, 'I': {7.5, 1}, 'O': {8.5, 1}, 'P': {9.5, 1},

	'A': {0.8, 2}, 'S': {1.8, 2}, 'D': {2.8, 2}, 'F': {3.8, 2}, 'G': {4.8, 2},
	'H': {5.8, 2}, 'J': {6.8, 2}, 'K': {7.8, 2}, 'L': {8.8, 2},

	'Z': {1.2, 3}, 'X': {2.2, 3}, 'C': {3.2, 3}, 'V': {4.2, 3}, 'B': {5.2, 3},
	'N': {6.2, 3}, 'M': {7.2, 3},
}

// rows lists keys in physical order for drawing
var rows = [][]Key{
	keysOf("1234567890"),
	keysOf("QWERTYUIOP"),
	keysOf("ASDFGHJKL"),
	keysOf("ZXCVBNM"),
}

func keysOf(s string) []Key {
	keys := make([]Key, len(s))
	for i := 0; i < len(s); i++ {
		keys[i] = Key(s[i])
	}
	return keys
}

// Position returns the physical coordinate of k
// Unmapped keys sit at the origin
func Position(k Key) (Point, bool) {
	p, ok := coordinates[k]
	return p, ok
}

// Distance is the Euclidean distance between two keys in key-width units
func Distance(a, b Key) float64 {
	pa := coordinates[a]
	pb := coordinates[b]
	return math.Hypot(pa.X-pb.X, pa.Y-pb.Y)
}

// Rows returns the physical rows of the board, top to bottom
// Callers must not modify the returned slices
func Rows() [][]Key {
	return rows
}
