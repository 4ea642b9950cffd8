package chess

import "fmt"

// Color is the side a piece belongs to.
type Color uint8

const (
	White Color = iota
	Black
)

// Other returns the opposing color.
func (c Color) Other() Color {
	return c ^ 1
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// PieceType identifies the kind of a piece. The zero value is NoPieceType.
type PieceType uint8

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var pieceTypeNames = [...]string{"", "pawn", "knight", "bishop", "rook", "queen", "king"}

func (pt PieceType) String() string {
	if int(pt) < len(pieceTypeNames) {
		return pieceTypeNames[pt]
	}
	return fmt.Sprintf("PieceType(%d)", pt)
}

// Piece is a colored piece. The zero value is an empty square.
type Piece struct {
	Type  PieceType
	Color Color
}

// NoPiece marks an empty square.
var NoPiece = Piece{}

// IsEmpty reports whether p marks an empty square.
func (p Piece) IsEmpty() bool {
	return p.Type == NoPieceType
}

const pieceLetters = " pnbrqk"

// Char returns the FEN letter for the piece: upper case for white.
func (p Piece) Char() byte {
	if p.IsEmpty() {
		return '.'
	}
	c := pieceLetters[p.Type]
	if p.Color == White {
		c -= 'a' - 'A'
	}
	return c
}

func pieceFromChar(c byte) (Piece, bool) {
	color := White
	if c >= 'a' && c <= 'z' {
		color = Black
		c -= 'a' - 'A'
	}
	switch c {
	case 'P':
		return Piece{Pawn, color}, true
	case 'N':
		return Piece{Knight, color}, true
	case 'B':
		return Piece{Bishop, color}, true
	case 'R':
		return Piece{Rook, color}, true
	case 'Q':
		return Piece{Queen, color}, true
	case 'K':
		return Piece{King, color}, true
	}
	return NoPiece, false
}

// Square indexes the board from a1 (0) to h8 (63).
type Square int8

// NoSquare is the absent square, used for an empty en-passant target.
const NoSquare Square = -1

const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
)

const (
	A8 Square = iota + 56
	B8
	C8
	D8
	E8
	F8
	G8
	H8
)

// NewSquare builds a square from a 0-based file and rank.
func NewSquare(file, rank int) Square {
	return Square(rank*8 + file)
}

// ParseSquare parses algebraic notation such as "e4".
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return NoSquare, fmt.Errorf("invalid square %q", s)
	}
	return NewSquare(int(s[0]-'a'), int(s[1]-'1')), nil
}

func (sq Square) File() int { return int(sq) & 7 }
func (sq Square) Rank() int { return int(sq) >> 3 }

// Valid reports whether sq lies on the board.
func (sq Square) Valid() bool {
	return sq >= 0 && sq < 64
}

// Mirror reflects the square across the horizontal center line.
func (sq Square) Mirror() Square {
	if sq == NoSquare {
		return NoSquare
	}
	return sq ^ 56
}

func (sq Square) String() string {
	if !sq.Valid() {
		return "-"
	}
	return string([]byte{byte('a' + sq.File()), byte('1' + sq.Rank())})
}

// CastlingRights holds the four independent castling permissions.
type CastlingRights uint8

const (
	WhiteKingSide CastlingRights = 1 << iota
	WhiteQueenSide
	BlackKingSide
	BlackQueenSide

	NoCastling  CastlingRights = 0
	AllCastling                = WhiteKingSide | WhiteQueenSide | BlackKingSide | BlackQueenSide
)

// Has reports whether every right in r is present.
func (c CastlingRights) Has(r CastlingRights) bool {
	return c&r == r
}

func (c CastlingRights) String() string {
	if c == NoCastling {
		return "-"
	}
	var b []byte
	if c.Has(WhiteKingSide) {
		b = append(b, 'K')
	}
	if c.Has(WhiteQueenSide) {
		b = append(b, 'Q')
	}
	if c.Has(BlackKingSide) {
		b = append(b, 'k')
	}
	if c.Has(BlackQueenSide) {
		b = append(b, 'q')
	}
	return string(b)
}

// mirror swaps white and black rights.
func (c CastlingRights) mirror() CastlingRights {
	return (c&(WhiteKingSide|WhiteQueenSide))<<2 | (c&(BlackKingSide|BlackQueenSide))>>2
}

// Board maps each square to the piece standing on it.
type Board [64]Piece

// Position is a complete game state. It is a plain value: copying it copies the
// whole board, and two positions compare equal with ==.
type Position struct {
	Board          Board
	Turn           Color
	Castling       CastlingRights
	EnPassant      Square
	HalfmoveClock  int
	FullmoveNumber int
}

// StartPosition returns the standard initial position.
func StartPosition() Position {
	p, err := DecodeFEN(StartFEN)
	if err != nil {
		panic(err)
	}
	return p
}

// PieceAt returns the piece on sq.
func (p *Position) PieceAt(sq Square) Piece {
	return p.Board[sq]
}

// KingSquare returns the square of the king of color c, or NoSquare.
func (p *Position) KingSquare(c Color) Square {
	for sq := Square(0); sq < 64; sq++ {
		if pc := p.Board[sq]; pc.Type == King && pc.Color == c {
			return sq
		}
	}
	return NoSquare
}

// Mirror returns the color-flipped position: ranks reversed, colors swapped.
// Evaluation of the mirrored position is the negation of the original.
func (p Position) Mirror() Position {
	m := Position{
		Turn:           p.Turn.Other(),
		Castling:       p.Castling.mirror(),
		EnPassant:      p.EnPassant.Mirror(),
		HalfmoveClock:  p.HalfmoveClock,
		FullmoveNumber: p.FullmoveNumber,
	}
	for sq := Square(0); sq < 64; sq++ {
		pc := p.Board[sq]
		if pc.IsEmpty() {
			continue
		}
		m.Board[sq.Mirror()] = Piece{Type: pc.Type, Color: pc.Color.Other()}
	}
	return m
}

// repetitionKey is the part of a position that counts for repetition.
type repetitionKey struct {
	board     Board
	turn      Color
	castling  CastlingRights
	enPassant Square
}

func (p *Position) repetitionKey() repetitionKey {
	return repetitionKey{p.Board, p.Turn, p.Castling, p.EnPassant}
}

// String renders the board as an 8x8 diagram, rank 8 first.
func (p Position) String() string {
	b := make([]byte, 0, 72)
	for rank := 7; rank >= 0; rank-- {
		for file := 0; file < 8; file++ {
			b = append(b, p.Board[NewSquare(file, rank)].Char())
		}
		b = append(b, '\n')
	}
	return string(b)
}
