package ai

import (
	"errors"

	"github.com/justinabrahms/chessai/internal/chess"
)

var (
	ErrNoLegalMoves      = errors.New("no legal moves")
	ErrGameAlreadyOver   = errors.New("game already over")
	ErrUnknownDifficulty = errors.New("unknown difficulty")
)

// GameOverError is returned when a move is requested on a finished game. It
// matches ErrGameAlreadyOver, and also ErrNoLegalMoves when the game ended
// because the side to move has no moves.
type GameOverError struct {
	Status chess.Status
}

func (e *GameOverError) Error() string {
	return "game already over: " + e.Status.String()
}

func (e *GameOverError) Is(target error) bool {
	switch target {
	case ErrGameAlreadyOver:
		return true
	case ErrNoLegalMoves:
		return e.Status.Outcome == chess.Checkmate || e.Status.Outcome == chess.Stalemate
	}
	return false
}
