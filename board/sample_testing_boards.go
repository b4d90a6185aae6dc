package board

// This file contains some sample filled boards, used solely for testing.

// VsWho is a string representation of a board.
type VsWho string

const (
	// DoubleFour: black to move wins with J8 (row 7, col 9), which makes a
	// rush four on row 8 and another on the J column at once. Both threes
	// are capped by white, so no other black move is decisive.
	DoubleFour VsWho = `
...............
...............
...............
.........O.....
.........X.....
.........X.....
.........X.....
.....OXXX......
...............
..........O....
...............
..O............
.....O.........
...........O...
...............
`
	// OpenThreeWhite: white live three on row 6 (cols F-H), black has a
	// scattered position elsewhere.
	OpenThreeWhite VsWho = `
...............
...............
...............
...............
...............
.....OOO.......
...............
...............
...............
...X...........
...............
.........X.....
...............
...............
...............
`
	// LiveFourBlack: black has a live four on row 4 and white has an
	// unrelated live three on row 11.
	LiveFourBlack VsWho = `
...............
...............
...............
....XXXX.......
...............
...............
...............
...............
...............
...............
.....OOO.......
...............
...............
...............
...............
`
	// RushFourWhite: white four on column C blocked at the top edge;
	// black to move must block C5.
	RushFourWhite VsWho = `
..O............
..O............
..O............
..O............
...............
.......X.......
........X......
...............
...............
...............
...............
...............
...............
...............
...............
`
)

// SetToGame loads one of the sample boards.
func (g *GameBoard) SetToGame(game VsWho) error {
	return g.SetFromPlaintext(string(game))
}
