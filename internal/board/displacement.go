package board

// Displacement is a relative step across the board.
type Displacement struct {
	DX, DY int
}

// Scale multiplies both components by n.
func (d Displacement) Scale(n int) Displacement {
	return Displacement{DX: d.DX * n, DY: d.DY * n}
}

// Movement vectors per piece shape. These tables are shared and must not be modified.
var (
	RookVectors = []Displacement{
		{0, 1}, {1, 0}, {0, -1}, {-1, 0},
	}
	BishopVectors = []Displacement{
		{1, 1}, {1, -1}, {-1, -1}, {-1, 1},
	}
	KnightVectors = []Displacement{
		{1, 2}, {2, 1}, {2, -1}, {1, -2},
		{-1, -2}, {-2, -1}, {-2, 1}, {-1, 2},
	}
	QueenVectors = []Displacement{
		{0, 1}, {1, 1}, {1, 0}, {1, -1},
		{0, -1}, {-1, -1}, {-1, 0}, {-1, 1},
	}
	KingVectors = QueenVectors
)
