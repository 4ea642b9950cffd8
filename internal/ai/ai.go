// Package ai chooses moves for a computer opponent. An Engine holds only
// settings, so one value can serve any number of games concurrently.
package ai

import (
	"math/rand"

	"github.com/justinabrahms/chessai/internal/chess"
	"github.com/justinabrahms/chessai/internal/search"
)

// Medium policy weights.
const (
	captureWeight     = 3
	checkWeight       = 2
	centreWeight      = 1
	developmentWeight = 1
)

var centreSquares = [...]chess.Square{chess.NewSquare(3, 3), chess.NewSquare(4, 3), chess.NewSquare(3, 4), chess.NewSquare(4, 4)}

type Engine struct {
	hardDepth         int
	defaultDifficulty Difficulty
	seed              func() int64
}

type Option func(*Engine)

// WithHardDepth sets the search depth used at Hard.
func WithHardDepth(depth int) Option {
	return func(e *Engine) {
		e.hardDepth = search.ClampDepth(depth)
	}
}

// WithDefaultDifficulty sets the difficulty used when a request names none.
func WithDefaultDifficulty(d Difficulty) Option {
	return func(e *Engine) {
		if d.Valid() {
			e.defaultDifficulty = d
		}
	}
}

// WithSeedSource sets where seeds come from when a request carries none.
func WithSeedSource(f func() int64) Option {
	return func(e *Engine) {
		e.seed = f
	}
}

func New(opts ...Option) *Engine {
	e := &Engine{
		hardDepth:         search.DefaultDepth,
		defaultDifficulty: Medium,
		seed:              randomSeed,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) HardDepth() int {
	return e.hardDepth
}

func (e *Engine) DefaultDifficulty() Difficulty {
	return e.defaultDifficulty
}

// Choice is a chosen move with what the policy learned while choosing it.
type Choice struct {
	Move       chess.Move
	Difficulty Difficulty
	// Search is set for Hard only.
	Search *search.Result
}

// ChooseMove picks a move for the side to move. The same position,
// difficulty and seed always give the same move.
func (e *Engine) ChooseMove(p chess.Position, d Difficulty, seed int64) (chess.Move, error) {
	c, err := e.choose(p, d, seed)
	if err != nil {
		return chess.NoMove, err
	}
	return c.Move, nil
}

func (e *Engine) choose(p chess.Position, d Difficulty, seed int64) (*Choice, error) {
	if !d.Valid() {
		return nil, ErrUnknownDifficulty
	}
	if status := p.Status(nil); status.IsOver() {
		return nil, &GameOverError{Status: status}
	}

	moves := p.LegalMoves()
	if len(moves) == 0 {
		return nil, ErrNoLegalMoves
	}

	rng := rand.New(rand.NewSource(seed))
	switch d {
	case Easy:
		return &Choice{Move: moves[rng.Intn(len(moves))], Difficulty: d}, nil
	case Medium:
		best := bestHeuristicMoves(&p, moves)
		return &Choice{Move: best[rng.Intn(len(best))], Difficulty: d}, nil
	}

	result := search.Search(p, e.hardDepth, rng)
	return &Choice{Move: result.Move, Difficulty: d, Search: &result}, nil
}

// bestHeuristicMoves returns the moves sharing the highest one-ply score, in
// generation order.
func bestHeuristicMoves(p *chess.Position, moves chess.MoveList) chess.MoveList {
	work := *p
	var best chess.MoveList
	bestScore := -1
	for _, m := range moves {
		score := heuristicScore(&work, m)
		switch {
		case score > bestScore:
			bestScore = score
			best = append(best[:0], m)
		case score == bestScore:
			best = append(best, m)
		}
	}
	return best
}

func heuristicScore(p *chess.Position, m chess.Move) int {
	score := 0
	if m.IsCapture() {
		score += captureWeight
	}
	for _, sq := range centreSquares {
		if m.To == sq {
			score += centreWeight
		}
	}
	if pt := p.Board[m.From].Type; pt != chess.Pawn && pt != chess.King {
		score += developmentWeight
	}

	u := p.MakeMove(m)
	if p.InCheck() {
		score += checkWeight
	}
	p.UnmakeMove(m, u)
	return score
}

var defaultEngine = New()

// ChooseMove picks a move with the default engine settings.
func ChooseMove(p chess.Position, d Difficulty, seed int64) (chess.Move, error) {
	return defaultEngine.ChooseMove(p, d, seed)
}
