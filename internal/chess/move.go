package chess

import (
	"errors"
	"fmt"
)

// ErrIllegalMove is returned when a requested move is not among the legal
// moves of the position.
var ErrIllegalMove = errors.New("illegal move requested")

// MoveFlag describes special properties of a move.
type MoveFlag uint8

const (
	FlagCapture MoveFlag = 1 << iota
	FlagEnPassant
	FlagCastleKingside
	FlagCastleQueenside
	FlagDoublePush
)

// Move is a move relative to the position it was generated from.
type Move struct {
	From      Square
	To        Square
	Promotion PieceType
	Flags     MoveFlag
}

// NoMove is the zero move.
var NoMove = Move{}

// Has reports whether every flag in f is set.
func (m Move) Has(f MoveFlag) bool {
	return m.Flags&f == f
}

func (m Move) IsCapture() bool   { return m.Has(FlagCapture) }
func (m Move) IsCastle() bool    { return m.Flags&(FlagCastleKingside|FlagCastleQueenside) != 0 }
func (m Move) IsPromotion() bool { return m.Promotion != NoPieceType }

// Matches reports whether m has the same squares and promotion as other,
// ignoring flags.
func (m Move) Matches(other Move) bool {
	return m.From == other.From && m.To == other.To && m.Promotion == other.Promotion
}

// String returns the move in UCI long algebraic form, e.g. "e7e8q".
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From.String() + m.To.String()
	if m.IsPromotion() {
		s += string(pieceLetters[m.Promotion])
	}
	return s
}

// ParsePromotion maps "q", "r", "b" or "n" to a piece type; anything else is NoPieceType.
func ParsePromotion(p string) PieceType {
	switch p {
	case "q", "Q":
		return Queen
	case "r", "R":
		return Rook
	case "b", "B":
		return Bishop
	case "n", "N":
		return Knight
	default:
		return NoPieceType
	}
}

// ParseUCI parses a move such as "e2e4" or "a7a8n". Flags are not filled in;
// resolve the result against a position with FindMove.
func ParseUCI(s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return NoMove, fmt.Errorf("invalid move %q", s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, fmt.Errorf("invalid move %q: %w", s, err)
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, fmt.Errorf("invalid move %q: %w", s, err)
	}
	m := Move{From: from, To: to}
	if len(s) == 5 {
		m.Promotion = ParsePromotion(s[4:])
		if m.Promotion == NoPieceType {
			return NoMove, fmt.Errorf("invalid promotion in move %q", s)
		}
	}
	return m, nil
}

// MoveList is a slice of moves with lookup helpers.
type MoveList []Move

// Contains reports whether a move with the same squares and promotion is present.
func (ml MoveList) Contains(m Move) bool {
	_, ok := ml.find(m)
	return ok
}

func (ml MoveList) find(m Move) (Move, bool) {
	for _, lm := range ml {
		if lm.Matches(m) {
			return lm, true
		}
	}
	return NoMove, false
}
