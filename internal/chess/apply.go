package chess

// Undo holds what MakeMove needs to restore the previous position.
type Undo struct {
	captured       Piece
	capturedSquare Square
	castling       CastlingRights
	enPassant      Square
	halfmoveClock  int
	fullmoveNumber int
}

// castlingMask[sq] is the set of rights lost when a piece leaves or lands on sq.
var castlingMask = func() [64]CastlingRights {
	var m [64]CastlingRights
	m[E1] = WhiteKingSide | WhiteQueenSide
	m[H1] = WhiteKingSide
	m[A1] = WhiteQueenSide
	m[E8] = BlackKingSide | BlackQueenSide
	m[H8] = BlackKingSide
	m[A8] = BlackQueenSide
	return m
}()

func castleRookSquares(m Move) (from, to Square) {
	rank := m.From.Rank()
	if m.Has(FlagCastleKingside) {
		return NewSquare(7, rank), NewSquare(5, rank)
	}
	return NewSquare(0, rank), NewSquare(3, rank)
}

// MakeMove plays m on the position in place and returns the information needed
// by UnmakeMove. m must come from this position's move generator.
func (p *Position) MakeMove(m Move) Undo {
	u := Undo{
		capturedSquare: NoSquare,
		castling:       p.Castling,
		enPassant:      p.EnPassant,
		halfmoveClock:  p.HalfmoveClock,
		fullmoveNumber: p.FullmoveNumber,
	}

	pc := p.Board[m.From]

	capSq := m.To
	if m.Has(FlagEnPassant) {
		capSq = NewSquare(m.To.File(), m.From.Rank())
	}
	if victim := p.Board[capSq]; !victim.IsEmpty() {
		u.captured = victim
		u.capturedSquare = capSq
		p.Board[capSq] = NoPiece
	}

	p.Board[m.From] = NoPiece
	if m.IsPromotion() {
		p.Board[m.To] = Piece{Type: m.Promotion, Color: pc.Color}
	} else {
		p.Board[m.To] = pc
	}

	if m.IsCastle() {
		rf, rt := castleRookSquares(m)
		p.Board[rt] = p.Board[rf]
		p.Board[rf] = NoPiece
	}

	if pc.Type == Pawn || !u.captured.IsEmpty() {
		p.HalfmoveClock = 0
	} else {
		p.HalfmoveClock++
	}

	p.EnPassant = NoSquare
	if m.Has(FlagDoublePush) {
		p.EnPassant = NewSquare(m.From.File(), (m.From.Rank()+m.To.Rank())/2)
	}

	p.Castling &^= castlingMask[m.From] | castlingMask[m.To]

	if p.Turn == Black {
		p.FullmoveNumber++
	}
	p.Turn = p.Turn.Other()
	return u
}

// UnmakeMove reverses MakeMove(m), which must have been the last move made.
func (p *Position) UnmakeMove(m Move, u Undo) {
	p.Turn = p.Turn.Other()

	pc := p.Board[m.To]
	if m.IsPromotion() {
		pc = Piece{Type: Pawn, Color: p.Turn}
	}
	p.Board[m.From] = pc
	p.Board[m.To] = NoPiece

	if m.IsCastle() {
		rf, rt := castleRookSquares(m)
		p.Board[rf] = p.Board[rt]
		p.Board[rt] = NoPiece
	}

	if u.capturedSquare != NoSquare {
		p.Board[u.capturedSquare] = u.captured
	}

	p.Castling = u.castling
	p.EnPassant = u.enPassant
	p.HalfmoveClock = u.halfmoveClock
	p.FullmoveNumber = u.fullmoveNumber
}

// Perft counts the leaf nodes of the legal move tree to the given depth.
func (p *Position) Perft(depth int) int64 {
	if depth <= 0 {
		return 1
	}
	work := *p
	return work.perft(depth)
}

func (p *Position) perft(depth int) int64 {
	moves := p.LegalMoves()
	if depth == 1 {
		return int64(len(moves))
	}
	var nodes int64
	for _, m := range moves {
		u := p.MakeMove(m)
		nodes += p.perft(depth - 1)
		p.UnmakeMove(m, u)
	}
	return nodes
}
