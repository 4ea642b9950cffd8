package chess

import "strings"

// SAN renders m in standard algebraic notation, including the check or mate
// suffix. The move must be legal in p.
func (p *Position) SAN(m Move) (string, error) {
	legal := p.LegalMoves()
	lm, ok := legal.find(m)
	if !ok {
		return "", ErrIllegalMove
	}

	var sb strings.Builder
	pc := p.Board[lm.From]
	switch {
	case lm.Has(FlagCastleKingside):
		sb.WriteString("O-O")
	case lm.Has(FlagCastleQueenside):
		sb.WriteString("O-O-O")
	case pc.Type == Pawn:
		if lm.IsCapture() {
			sb.WriteByte(byte('a' + lm.From.File()))
			sb.WriteByte('x')
		}
		sb.WriteString(lm.To.String())
		if lm.IsPromotion() {
			sb.WriteByte('=')
			sb.WriteByte(Piece{Type: lm.Promotion, Color: White}.Char())
		}
	default:
		sb.WriteByte(Piece{Type: pc.Type, Color: White}.Char())
		sb.WriteString(p.disambiguation(legal, lm, pc.Type))
		if lm.IsCapture() {
			sb.WriteByte('x')
		}
		sb.WriteString(lm.To.String())
	}

	next := *p
	next.MakeMove(lm)
	if next.InCheck() {
		if next.HasLegalMoves() {
			sb.WriteByte('+')
		} else {
			sb.WriteByte('#')
		}
	}
	return sb.String(), nil
}

func (p *Position) disambiguation(legal MoveList, m Move, pt PieceType) string {
	ambiguous, sameFile, sameRank := false, false, false
	for _, other := range legal {
		if other.To != m.To || other.From == m.From || p.Board[other.From].Type != pt {
			continue
		}
		ambiguous = true
		if other.From.File() == m.From.File() {
			sameFile = true
		}
		if other.From.Rank() == m.From.Rank() {
			sameRank = true
		}
	}
	switch {
	case !ambiguous:
		return ""
	case !sameFile:
		return m.From.String()[:1]
	case !sameRank:
		return m.From.String()[1:]
	}
	return m.From.String()
}
