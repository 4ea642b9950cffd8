// Package eval scores chess positions in centipawns from white's point of view.
package eval

import (
	"github.com/justinabrahms/chessai/internal/chess"
)

const (
	// MateScore is the score of a side that has been checkmated, before the
	// ply adjustment that makes shorter mates score higher.
	MateScore = 100000

	// MaxMatePly bounds the ply adjustment; any score with a magnitude above
	// MateScore-MaxMatePly is a mate score.
	MaxMatePly = 1000

	// MobilityWeight is the value of one extra legal move.
	MobilityWeight = 2
)

// Centipawn piece values, kings excluded.
const (
	PawnValue   = 100
	KnightValue = 300
	BishopValue = 300
	RookValue   = 500
	QueenValue  = 900
)

var pieceValues = [...]int{
	chess.NoPieceType: 0,
	chess.Pawn:        PawnValue,
	chess.Knight:      KnightValue,
	chess.Bishop:      BishopValue,
	chess.Rook:        RookValue,
	chess.Queen:       QueenValue,
	chess.King:        0,
}

// PieceValue returns the centipawn value of a piece type.
func PieceValue(pt chess.PieceType) int {
	return pieceValues[pt]
}

// Terms is an evaluation split into its parts. Every field is white-positive.
type Terms struct {
	Material   int `json:"material"`
	Positional int `json:"positional"`
	Mobility   int `json:"mobility"`
	// Terminal is set when the position is checkmate, stalemate or a dead
	// draw; Total is then the terminal score and the other terms are zero.
	Terminal bool `json:"terminal"`
	Total    int  `json:"total"`
}

// Evaluate returns the static score of p.
func Evaluate(p *chess.Position) int {
	return Breakdown(p).Total
}

// Score is Evaluate with mate scores shortened by ply, so a mate found
// closer to the root scores further from zero.
func Score(p *chess.Position, ply int) int {
	return breakdown(p, ply).Total
}

// Breakdown evaluates p and reports each term.
func Breakdown(p *chess.Position) Terms {
	return breakdown(p, 0)
}

func breakdown(p *chess.Position, ply int) Terms {
	moves := len(p.LegalMoves())
	if moves == 0 {
		if !p.InCheck() {
			return Terms{Terminal: true}
		}
		if ply > MaxMatePly {
			ply = MaxMatePly
		}
		score := MateScore - ply
		if p.Turn == chess.White {
			score = -score
		}
		return Terms{Terminal: true, Total: score}
	}
	// Dead draws score zero in every term, positional included.
	if p.InsufficientMaterial() || p.HalfmoveClock >= chess.FiftyMoveLimit {
		return Terms{Terminal: true}
	}

	var t Terms
	for sq := chess.Square(0); sq < 64; sq++ {
		pc := p.Board[sq]
		if pc.IsEmpty() {
			continue
		}
		material := pieceValues[pc.Type]
		positional := squareBonus(pc, sq)
		if pc.Color == chess.Black {
			material, positional = -material, -positional
		}
		t.Material += material
		t.Positional += positional
	}

	mobility := MobilityWeight * (moves - opponentMoves(p))
	if p.Turn == chess.Black {
		mobility = -mobility
	}
	t.Mobility = mobility

	t.Total = t.Material + t.Positional + t.Mobility
	return t
}

// opponentMoves counts the legal moves the side not to move would have if it
// were its turn.
func opponentMoves(p *chess.Position) int {
	null := *p
	null.Turn = p.Turn.Other()
	null.EnPassant = chess.NoSquare
	return len(null.LegalMoves())
}

// IsMate reports whether score is a mate score.
func IsMate(score int) bool {
	return score > MateScore-MaxMatePly || score < -(MateScore-MaxMatePly)
}

// MateDistance returns the number of plies to the mate encoded in score.
func MateDistance(score int) int {
	if score < 0 {
		score = -score
	}
	return MateScore - score
}
