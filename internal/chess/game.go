package chess

import (
	"fmt"
)

// Game is a position together with the positions that led to it. It is the
// stateful wrapper used when moves are played one after another; a Game is
// not safe for concurrent use.
type Game struct {
	start   Position
	pos     Position
	history []Position
	moves   []Move
}

func NewGame() *Game {
	pos := StartPosition()
	return &Game{start: pos, pos: pos}
}

func NewGameFromFEN(fen string) (*Game, error) {
	pos, err := DecodeFEN(fen)
	if err != nil {
		return nil, err
	}
	return &Game{start: pos, pos: pos}, nil
}

// NewGameFromHistory builds a game whose current position is fen and whose
// earlier positions are given, oldest first, as FEN strings.
func NewGameFromHistory(fen string, history []string) (*Game, error) {
	g, err := NewGameFromFEN(fen)
	if err != nil {
		return nil, err
	}
	for i, h := range history {
		pos, err := DecodeFEN(h)
		if err != nil {
			return nil, fmt.Errorf("history entry %d: %w", i, err)
		}
		g.history = append(g.history, pos)
	}
	return g, nil
}

// MakeMove validates and plays a move given in coordinate form. On error the
// game is left unchanged.
func (g *Game) MakeMove(from, to string, promotion PieceType) (*MoveResult, error) {
	fromSquare, err := ParseSquare(from)
	if err != nil {
		return nil, fmt.Errorf("invalid square notation: %w", err)
	}
	toSquare, err := ParseSquare(to)
	if err != nil {
		return nil, fmt.Errorf("invalid square notation: %w", err)
	}

	move, err := g.pos.FindMove(Move{From: fromSquare, To: toSquare, Promotion: promotion})
	if err != nil {
		return nil, fmt.Errorf("invalid move %s to %s: %w", from, to, err)
	}

	san, err := g.pos.SAN(move)
	if err != nil {
		return nil, fmt.Errorf("failed to make move: %w", err)
	}

	g.history = append(g.history, g.pos)
	g.moves = append(g.moves, move)
	g.pos.MakeMove(move)

	result := NewMoveResult(move, san, g.pos, g.Status())
	return result, nil
}

// NewMoveResult describes the position reached by move.
func NewMoveResult(move Move, san string, after Position, status Status) *MoveResult {
	result := &MoveResult{
		From:      move.From.String(),
		To:        move.To.String(),
		UCI:       move.String(),
		SAN:       san,
		FEN:       after.FEN(),
		Check:     after.InCheck(),
		Checkmate: status.Outcome == Checkmate,
		Stalemate: status.Outcome == Stalemate,
		Draw:      status.Outcome == Stalemate || status.Outcome == Draw,
		GameOver:  status.IsOver(),
		Result:    status.Result(),
	}
	if move.IsPromotion() {
		result.Promotion = string(pieceLetters[move.Promotion])
	}
	if status.Outcome == Draw {
		result.DrawReason = status.Reason.String()
	}
	return result
}

func (g *Game) Position() Position {
	return g.pos
}

func (g *Game) FEN() string {
	return g.pos.FEN()
}

// History returns the positions before the current one, oldest first.
func (g *Game) History() []Position {
	return append([]Position(nil), g.history...)
}

// Moves returns the moves played through MakeMove, starting from the position
// the game was created with.
func (g *Game) Moves() []Move {
	return append([]Move(nil), g.moves...)
}

func (g *Game) Status() Status {
	return g.pos.Status(g.history)
}

func (g *Game) GameStatus() GameStatus {
	return GameStatusOf(g.Status())
}

func (g *Game) ActiveColor() string {
	return g.pos.Turn.String()
}

func (g *Game) LegalMoves() MoveList {
	return g.pos.LegalMoves()
}

func (g *Game) MaterialCount() MaterialCount {
	return g.pos.Material()
}

// MaterialBalance is white's material minus black's.
func (g *Game) MaterialBalance() int {
	mc := g.pos.Material()
	return mc.White - mc.Black
}

func (g *Game) PieceValues() map[string]int {
	values := make(map[string]int, len(StandardPieceValues))
	for k, v := range StandardPieceValues {
		values[k] = v
	}
	return values
}

// ValidateFEN reports whether fen decodes to a position.
func ValidateFEN(fen string) error {
	_, err := DecodeFEN(fen)
	return err
}
