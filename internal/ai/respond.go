package ai

import (
	"fmt"
	"time"

	"github.com/justinabrahms/chessai/internal/chess"
	"github.com/justinabrahms/chessai/internal/eval"
)

func randomSeed() int64 {
	return time.Now().UnixNano()
}

// Request asks for a computer move.
type Request struct {
	FEN        string     `json:"fen"`
	Difficulty Difficulty `json:"difficulty,omitempty"`
	// Seed makes the choice reproducible; nil draws a fresh seed.
	Seed *int64 `json:"seed,omitempty"`
	// History holds the FENs of earlier positions, oldest first, for
	// repetition detection.
	History []string `json:"history,omitempty"`
}

// MoveSpec is a move in structured form.
type MoveSpec struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion,omitempty"`
}

func NewMoveSpec(m chess.Move) MoveSpec {
	spec := MoveSpec{From: m.From.String(), To: m.To.String()}
	if m.IsPromotion() {
		spec.Promotion = string(chess.Piece{Type: m.Promotion, Color: chess.Black}.Char())
	}
	return spec
}

// Response describes the chosen move and the position it leads to.
type Response struct {
	Move        MoveSpec         `json:"move"`
	UCI         string           `json:"uci"`
	SAN         string           `json:"san"`
	FEN         string           `json:"fen"`
	InCheck     bool             `json:"inCheck"`
	IsCheckmate bool             `json:"isCheckmate"`
	IsStalemate bool             `json:"isStalemate"`
	IsDraw      bool             `json:"isDraw"`
	DrawReason  string           `json:"drawReason,omitempty"`
	Status      chess.GameStatus `json:"status"`
	Result      string           `json:"result"`
	Difficulty  Difficulty       `json:"difficulty"`
	Seed        int64            `json:"seed"`
	Score       *int             `json:"score,omitempty"`
	Depth       int              `json:"depth,omitempty"`
	Nodes       int64            `json:"nodes,omitempty"`
}

// Respond decodes the request, chooses a move and reports the resulting
// position. Errors match chess.ErrInvalidFEN, ErrUnknownDifficulty,
// ErrGameAlreadyOver or ErrNoLegalMoves.
func (e *Engine) Respond(req Request) (*Response, error) {
	game, err := chess.NewGameFromHistory(req.FEN, req.History)
	if err != nil {
		return nil, err
	}

	d := req.Difficulty
	if d == "" {
		d = e.defaultDifficulty
	}
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDifficulty, d)
	}

	if status := game.Status(); status.IsOver() {
		return nil, &GameOverError{Status: status}
	}

	seed := e.seed()
	if req.Seed != nil {
		seed = *req.Seed
	}

	choice, err := e.choose(game.Position(), d, seed)
	if err != nil {
		return nil, err
	}

	result, err := game.MakeMove(choice.Move.From.String(), choice.Move.To.String(), choice.Move.Promotion)
	if err != nil {
		return nil, fmt.Errorf("chosen move %s: %w", choice.Move, err)
	}
	status := game.Status()

	resp := &Response{
		Move:        NewMoveSpec(choice.Move),
		UCI:         result.UCI,
		SAN:         result.SAN,
		FEN:         result.FEN,
		InCheck:     result.Check,
		IsCheckmate: result.Checkmate,
		IsStalemate: result.Stalemate,
		IsDraw:      result.Draw,
		DrawReason:  result.DrawReason,
		Status:      chess.GameStatusOf(status),
		Result:      result.Result,
		Difficulty:  d,
		Seed:        seed,
	}
	if sr := choice.Search; sr != nil {
		score := sr.Score
		resp.Score = &score
		resp.Depth = sr.Depth
		resp.Nodes = sr.Nodes
	}
	return resp, nil
}

// Evaluation is the static evaluation of a position.
type Evaluation struct {
	FEN        string              `json:"fen"`
	Score      int                 `json:"score"`
	Terms      eval.Terms          `json:"terms"`
	Material   chess.MaterialCount `json:"material"`
	Status     chess.GameStatus    `json:"status"`
	Outcome    string              `json:"outcome"`
	DrawReason string              `json:"drawReason,omitempty"`
	InCheck    bool                `json:"inCheck"`
	LegalMoves int                 `json:"legalMoves"`
}

// Evaluate scores the position in fen. history is optional and only affects
// the reported status.
func (e *Engine) Evaluate(fen string, history []string) (*Evaluation, error) {
	game, err := chess.NewGameFromHistory(fen, history)
	if err != nil {
		return nil, err
	}
	pos := game.Position()
	status := game.Status()
	terms := eval.Breakdown(&pos)

	ev := &Evaluation{
		FEN:        pos.FEN(),
		Score:      terms.Total,
		Terms:      terms,
		Material:   pos.Material(),
		Status:     chess.GameStatusOf(status),
		Outcome:    status.Outcome.String(),
		InCheck:    pos.InCheck(),
		LegalMoves: len(pos.LegalMoves()),
	}
	if status.Outcome == chess.Draw {
		ev.DrawReason = status.Reason.String()
		ev.Score = 0
	}
	return ev, nil
}
