// Package search picks moves with a depth-bounded negamax alpha-beta search.
package search

import (
	"math/rand"
	"sort"

	"github.com/justinabrahms/chessai/internal/chess"
	"github.com/justinabrahms/chessai/internal/eval"
)

const (
	Infinity = 1000000

	// MaxDepth caps the requested depth; the search is exhaustive to its
	// depth so every extra ply multiplies the work.
	MaxDepth     = 6
	DefaultDepth = 3
)

// Result is the outcome of a search.
type Result struct {
	// Move is chess.NoMove when the position has no legal moves.
	Move chess.Move
	// Score is from white's point of view.
	Score int
	Nodes int64
	Depth int
	// Candidates holds every root move that shared the best score, in
	// search order. Move is one of them.
	Candidates []chess.Move
}

// ClampDepth limits depth to [1, MaxDepth].
func ClampDepth(depth int) int {
	if depth < 1 {
		return 1
	}
	if depth > MaxDepth {
		return MaxDepth
	}
	return depth
}

type searcher struct {
	pos   chess.Position
	nodes int64
}

// Search runs alpha-beta to depth plies and returns the best move. Ties at the
// root are broken with rng; a nil rng takes the first of the tied moves. p is
// not modified.
func Search(p chess.Position, depth int, rng *rand.Rand) Result {
	depth = ClampDepth(depth)
	s := &searcher{pos: p}

	moves := orderMoves(&s.pos, s.pos.LegalMoves())
	if len(moves) == 0 {
		return Result{Move: chess.NoMove, Score: eval.Score(&p, 0), Nodes: 1, Depth: depth}
	}
	s.nodes++

	best := -Infinity
	var candidates []chess.Move
	for _, m := range moves {
		u := s.pos.MakeMove(m)
		// The window opens one below the best score so that moves tying
		// it come back with their exact score.
		score := -s.negamax(depth-1, 1, -Infinity, -(best - 1))
		s.pos.UnmakeMove(m, u)

		switch {
		case score > best:
			best = score
			candidates = append(candidates[:0], m)
		case score == best:
			candidates = append(candidates, m)
		}
	}

	choice := candidates[0]
	if rng != nil && len(candidates) > 1 {
		choice = candidates[rng.Intn(len(candidates))]
	}

	if p.Turn == chess.Black {
		best = -best
	}
	return Result{
		Move:       choice,
		Score:      best,
		Nodes:      s.nodes,
		Depth:      depth,
		Candidates: candidates,
	}
}

// negamax scores the working position for the side to move.
func (s *searcher) negamax(depth, ply, alpha, beta int) int {
	s.nodes++

	if depth == 0 {
		return s.relative(eval.Score(&s.pos, ply))
	}

	moves := s.pos.LegalMoves()
	if len(moves) == 0 || s.pos.InsufficientMaterial() || s.pos.HalfmoveClock >= chess.FiftyMoveLimit {
		return s.relative(eval.Score(&s.pos, ply))
	}

	best := -Infinity
	for _, m := range orderMoves(&s.pos, moves) {
		u := s.pos.MakeMove(m)
		score := -s.negamax(depth-1, ply+1, -beta, -alpha)
		s.pos.UnmakeMove(m, u)

		if score > best {
			best = score
		}
		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			break
		}
	}
	return best
}

func (s *searcher) relative(score int) int {
	if s.pos.Turn == chess.Black {
		return -score
	}
	return score
}

// orderMoves sorts captures first by most valuable victim, then least
// valuable attacker, then promotions. Other moves keep generation order.
func orderMoves(p *chess.Position, moves chess.MoveList) chess.MoveList {
	keys := make([]int, len(moves))
	for i, m := range moves {
		keys[i] = moveKey(p, m)
	}
	idx := make([]int, len(moves))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return keys[idx[a]] > keys[idx[b]]
	})
	ordered := make(chess.MoveList, len(moves))
	for i, j := range idx {
		ordered[i] = moves[j]
	}
	return ordered
}

func moveKey(p *chess.Position, m chess.Move) int {
	key := 0
	if m.IsCapture() {
		victim := chess.Pawn
		if !m.Has(chess.FlagEnPassant) {
			victim = p.Board[m.To].Type
		}
		key += 10*eval.PieceValue(victim) - eval.PieceValue(p.Board[m.From].Type)/10 + 1
	}
	if m.IsPromotion() {
		key += eval.PieceValue(m.Promotion)
	}
	return key
}
