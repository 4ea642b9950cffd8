package chess

import "fmt"

type direction struct {
	df, dr int
}

var (
	knightDirs = [8]direction{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingDirs   = [8]direction{{0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}}
	rookDirs   = [4]direction{{0, 1}, {1, 0}, {0, -1}, {-1, 0}}
	bishopDirs = [4]direction{{1, 1}, {1, -1}, {-1, -1}, {-1, 1}}
)

// promotionOrder lists every promotion piece; under-promotions are distinct moves.
var promotionOrder = [4]PieceType{Queen, Rook, Bishop, Knight}

func (sq Square) step(d direction) (Square, bool) {
	f, r := sq.File()+d.df, sq.Rank()+d.dr
	if f < 0 || f > 7 || r < 0 || r > 7 {
		return NoSquare, false
	}
	return NewSquare(f, r), true
}

func pawnForward(c Color) int {
	if c == White {
		return 1
	}
	return -1
}

// IsAttacked reports whether any piece of color by attacks sq.
func (p *Position) IsAttacked(sq Square, by Color) bool {
	if !sq.Valid() {
		return false
	}

	// A pawn of color by attacks sq from one rank behind it.
	back := -pawnForward(by)
	for _, df := range [2]int{-1, 1} {
		if from, ok := sq.step(direction{df, back}); ok {
			if pc := p.Board[from]; pc.Type == Pawn && pc.Color == by {
				return true
			}
		}
	}

	for _, d := range knightDirs {
		if from, ok := sq.step(d); ok {
			if pc := p.Board[from]; pc.Type == Knight && pc.Color == by {
				return true
			}
		}
	}

	for _, d := range kingDirs {
		if from, ok := sq.step(d); ok {
			if pc := p.Board[from]; pc.Type == King && pc.Color == by {
				return true
			}
		}
	}

	if p.slidingAttack(sq, by, rookDirs, Rook) || p.slidingAttack(sq, by, bishopDirs, Bishop) {
		return true
	}
	return false
}

func (p *Position) slidingAttack(sq Square, by Color, dirs [4]direction, slider PieceType) bool {
	for _, d := range dirs {
		cur := sq
		for {
			next, ok := cur.step(d)
			if !ok {
				break
			}
			cur = next
			pc := p.Board[cur]
			if pc.IsEmpty() {
				continue
			}
			if pc.Color == by && (pc.Type == slider || pc.Type == Queen) {
				return true
			}
			break
		}
	}
	return false
}

// InCheck reports whether the side to move is in check.
func (p *Position) InCheck() bool {
	return p.IsAttacked(p.KingSquare(p.Turn), p.Turn.Other())
}

// LegalMoves returns every legal move. The order depends only on the position.
func (p *Position) LegalMoves() MoveList {
	pseudo := p.pseudoLegalMoves(make([]Move, 0, 48))

	us := p.Turn
	ks := p.KingSquare(us)
	work := *p
	legal := pseudo[:0]
	for _, m := range pseudo {
		u := work.MakeMove(m)
		target := ks
		if m.From == ks {
			target = m.To
		}
		if !work.IsAttacked(target, us.Other()) {
			legal = append(legal, m)
		}
		work.UnmakeMove(m, u)
	}
	return MoveList(legal)
}

// HasLegalMoves reports whether the side to move has at least one legal move.
func (p *Position) HasLegalMoves() bool {
	return len(p.LegalMoves()) > 0
}

// FindMove resolves a move given by squares and promotion to the matching legal
// move with its flags filled in.
func (p *Position) FindMove(m Move) (Move, error) {
	lm, ok := p.LegalMoves().find(m)
	if !ok {
		return NoMove, fmt.Errorf("%w: %s", ErrIllegalMove, m)
	}
	return lm, nil
}

// Apply returns the position after m. The receiver is never modified; a move
// that is not legal here yields ErrIllegalMove.
func (p *Position) Apply(m Move) (Position, error) {
	lm, err := p.FindMove(m)
	if err != nil {
		return *p, err
	}
	next := *p
	next.MakeMove(lm)
	return next, nil
}

func (p *Position) pseudoLegalMoves(moves []Move) []Move {
	us := p.Turn
	for sq := Square(0); sq < 64; sq++ {
		pc := p.Board[sq]
		if pc.IsEmpty() || pc.Color != us {
			continue
		}
		switch pc.Type {
		case Pawn:
			moves = p.pawnMoves(moves, sq)
		case Knight:
			moves = p.stepMoves(moves, sq, knightDirs)
		case Bishop:
			moves = p.slideMoves(moves, sq, bishopDirs[:])
		case Rook:
			moves = p.slideMoves(moves, sq, rookDirs[:])
		case Queen:
			moves = p.slideMoves(moves, sq, rookDirs[:])
			moves = p.slideMoves(moves, sq, bishopDirs[:])
		case King:
			moves = p.stepMoves(moves, sq, kingDirs)
			moves = p.castleMoves(moves, sq)
		}
	}
	return moves
}

func (p *Position) pawnMoves(moves []Move, from Square) []Move {
	us := p.Turn
	fwd := pawnForward(us)
	startRank, lastRank := 1, 7
	if us == Black {
		startRank, lastRank = 6, 0
	}

	add := func(to Square, flags MoveFlag) {
		if to.Rank() == lastRank {
			for _, promo := range promotionOrder {
				moves = append(moves, Move{From: from, To: to, Promotion: promo, Flags: flags})
			}
			return
		}
		moves = append(moves, Move{From: from, To: to, Flags: flags})
	}

	if one, ok := from.step(direction{0, fwd}); ok && p.Board[one].IsEmpty() {
		add(one, 0)
		if from.Rank() == startRank {
			if two, ok := one.step(direction{0, fwd}); ok && p.Board[two].IsEmpty() {
				moves = append(moves, Move{From: from, To: two, Flags: FlagDoublePush})
			}
		}
	}

	for _, df := range [2]int{-1, 1} {
		to, ok := from.step(direction{df, fwd})
		if !ok {
			continue
		}
		target := p.Board[to]
		if !target.IsEmpty() {
			if target.Color != us {
				add(to, FlagCapture)
			}
			continue
		}
		if to == p.EnPassant {
			victim := p.Board[NewSquare(to.File(), from.Rank())]
			if victim.Type == Pawn && victim.Color != us {
				moves = append(moves, Move{From: from, To: to, Flags: FlagCapture | FlagEnPassant})
			}
		}
	}
	return moves
}

func (p *Position) stepMoves(moves []Move, from Square, dirs [8]direction) []Move {
	us := p.Turn
	for _, d := range dirs {
		to, ok := from.step(d)
		if !ok {
			continue
		}
		target := p.Board[to]
		switch {
		case target.IsEmpty():
			moves = append(moves, Move{From: from, To: to})
		case target.Color != us:
			moves = append(moves, Move{From: from, To: to, Flags: FlagCapture})
		}
	}
	return moves
}

func (p *Position) slideMoves(moves []Move, from Square, dirs []direction) []Move {
	us := p.Turn
	for _, d := range dirs {
		cur := from
		for {
			to, ok := cur.step(d)
			if !ok {
				break
			}
			cur = to
			target := p.Board[to]
			if target.IsEmpty() {
				moves = append(moves, Move{From: from, To: to})
				continue
			}
			if target.Color != us {
				moves = append(moves, Move{From: from, To: to, Flags: FlagCapture})
			}
			break
		}
	}
	return moves
}

type castleRule struct {
	right   CastlingRights
	king    Square
	rook    Square
	to      Square
	flag    MoveFlag
	empty   []Square
	transit []Square
}

var castleRules = [2][2]castleRule{
	White: {
		{WhiteKingSide, E1, H1, G1, FlagCastleKingside, []Square{F1, G1}, []Square{E1, F1, G1}},
		{WhiteQueenSide, E1, A1, C1, FlagCastleQueenside, []Square{B1, C1, D1}, []Square{E1, D1, C1}},
	},
	Black: {
		{BlackKingSide, E8, H8, G8, FlagCastleKingside, []Square{F8, G8}, []Square{E8, F8, G8}},
		{BlackQueenSide, E8, A8, C8, FlagCastleQueenside, []Square{B8, C8, D8}, []Square{E8, D8, C8}},
	},
}

func (p *Position) castleMoves(moves []Move, from Square) []Move {
	us := p.Turn
	them := us.Other()
	for _, rule := range castleRules[us] {
		if !p.Castling.Has(rule.right) || from != rule.king {
			continue
		}
		if p.Board[rule.rook] != (Piece{Rook, us}) {
			continue
		}
		if !p.allEmpty(rule.empty) || p.anyAttacked(rule.transit, them) {
			continue
		}
		moves = append(moves, Move{From: from, To: rule.to, Flags: rule.flag})
	}
	return moves
}

func (p *Position) allEmpty(squares []Square) bool {
	for _, sq := range squares {
		if !p.Board[sq].IsEmpty() {
			return false
		}
	}
	return true
}

func (p *Position) anyAttacked(squares []Square, by Color) bool {
	for _, sq := range squares {
		if p.IsAttacked(sq, by) {
			return true
		}
	}
	return false
}
