package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/justinabrahms/chessai/internal/ai"
	"github.com/justinabrahms/chessai/internal/chess"
	"github.com/justinabrahms/chessai/internal/config"
)

type Service struct {
	engine *ai.Engine
	config *config.Config
	hub    *Hub
}

// NewService wires the handlers to an engine. hub may be nil, in which case
// no live updates are sent.
func NewService(engine *ai.Engine, config *config.Config, hub *Hub) *Service {
	return &Service{
		engine: engine,
		config: config,
		hub:    hub,
	}
}

func (s *Service) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":            "ok",
		"difficulties":      ai.Difficulties,
		"defaultDifficulty": s.engine.DefaultDifficulty(),
		"hardDepth":         s.engine.HardDepth(),
	})
}

type AIMoveRequest struct {
	ai.Request
	GameID string `json:"game_id,omitempty"`
}

type moveOutcome struct {
	resp *ai.Response
	err  error
}

// AIMoveHandler asks the engine for a move. The engine cannot be interrupted,
// so a search that outlives the move timeout keeps running in the background
// and its result is dropped.
func (s *Service) AIMoveHandler(w http.ResponseWriter, r *http.Request) {
	var req AIMoveRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	logger := hlog.FromRequest(r)
	logger.Info().Str("fen", req.FEN).Str("difficulty", req.Difficulty.String()).Msg("AI move requested")

	ctx, cancel := context.WithTimeout(r.Context(), s.config.Engine.MoveTimeout)
	defer cancel()

	done := make(chan moveOutcome, 1)
	go func() {
		resp, err := s.engine.Respond(req.Request)
		done <- moveOutcome{resp: resp, err: err}
	}()

	var outcome moveOutcome
	select {
	case outcome = <-done:
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.Canceled) {
			// The client went away; there is nobody to answer.
			logger.Debug().Str("fen", req.FEN).Msg("AI move abandoned by client")
			return
		}
		logger.Warn().Str("fen", req.FEN).Dur("timeout", s.config.Engine.MoveTimeout).Msg("AI move timed out")
		writeError(w, r, ctx.Err())
		return
	}

	if outcome.err != nil {
		writeError(w, r, outcome.err)
		return
	}

	resp := outcome.resp
	logger.Info().
		Str("uci", resp.UCI).
		Str("san", resp.SAN).
		Str("resultFEN", resp.FEN).
		Bool("checkmate", resp.IsCheckmate).
		Int64("nodes", resp.Nodes).
		Msg("AI move chosen")

	s.broadcast(req.GameID, "move", resp)
	writeJSON(w, http.StatusOK, resp)
}

type EvaluateRequest struct {
	FEN     string   `json:"fen"`
	History []string `json:"history,omitempty"`
}

func (s *Service) EvaluateHandler(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	evaluation, err := s.engine.Evaluate(req.FEN, req.History)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, evaluation)
}

type MakeMoveRequest struct {
	FEN       string   `json:"fen"`
	From      string   `json:"from"`
	To        string   `json:"to"`
	Promotion string   `json:"promotion,omitempty"`
	History   []string `json:"history,omitempty"`
	GameID    string   `json:"game_id,omitempty"`
}

// MakeMoveHandler validates and plays a human move.
func (s *Service) MakeMoveHandler(w http.ResponseWriter, r *http.Request) {
	var req MakeMoveRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	logger := hlog.FromRequest(r)
	logger.Info().Str("gameID", req.GameID).Str("from", req.From).Str("to", req.To).Str("fen", req.FEN).Msg("MakeMoveHandler called")

	game, err := chess.NewGameFromHistory(req.FEN, req.History)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if status := game.Status(); status.IsOver() {
		writeError(w, r, &ai.GameOverError{Status: status})
		return
	}

	promotion := chess.ParsePromotion(req.Promotion)
	if req.Promotion != "" && promotion == chess.NoPieceType {
		writeError(w, r, &badRequestError{err: fmt.Errorf("invalid promotion %q: expected q, r, b or n", req.Promotion)})
		return
	}

	moveResult, err := game.MakeMove(req.From, req.To, promotion)
	if err != nil {
		writeError(w, r, illegalMove(err))
		return
	}

	logger.Info().Str("gameID", req.GameID).Str("san", moveResult.SAN).Str("resultFEN", moveResult.FEN).Bool("check", moveResult.Check).Bool("checkmate", moveResult.Checkmate).Msg("Move executed successfully")

	s.broadcast(req.GameID, "move", moveResult)
	writeJSON(w, http.StatusOK, moveResult)
}

type PositionRequest struct {
	FEN     string   `json:"fen"`
	History []string `json:"history,omitempty"`
}

type LegalMove struct {
	ai.MoveSpec
	UCI string `json:"uci"`
	SAN string `json:"san"`
}

type LegalMovesResponse struct {
	FEN   string      `json:"fen"`
	Moves []LegalMove `json:"moves"`
	Count int         `json:"count"`
}

func (s *Service) LegalMovesHandler(w http.ResponseWriter, r *http.Request) {
	var req PositionRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	pos, err := chess.DecodeFEN(req.FEN)
	if err != nil {
		writeError(w, r, err)
		return
	}

	legal := pos.LegalMoves()
	resp := LegalMovesResponse{FEN: pos.FEN(), Moves: make([]LegalMove, 0, len(legal)), Count: len(legal)}
	for _, m := range legal {
		san, err := pos.SAN(m)
		if err != nil {
			writeError(w, r, err)
			return
		}
		resp.Moves = append(resp.Moves, LegalMove{MoveSpec: ai.NewMoveSpec(m), UCI: m.String(), SAN: san})
	}
	writeJSON(w, http.StatusOK, resp)
}

type StatusResponse struct {
	FEN         string           `json:"fen"`
	Status      chess.GameStatus `json:"status"`
	Outcome     string           `json:"outcome"`
	Winner      string           `json:"winner,omitempty"`
	DrawReason  string           `json:"drawReason,omitempty"`
	Result      string           `json:"result"`
	InCheck     bool             `json:"inCheck"`
	ActiveColor string           `json:"activeColor"`
	Repetitions int              `json:"repetitions"`
}

func (s *Service) StatusHandler(w http.ResponseWriter, r *http.Request) {
	var req PositionRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	game, err := chess.NewGameFromHistory(req.FEN, req.History)
	if err != nil {
		writeError(w, r, err)
		return
	}

	pos := game.Position()
	status := game.Status()
	resp := StatusResponse{
		FEN:         game.FEN(),
		Status:      chess.GameStatusOf(status),
		Outcome:     status.Outcome.String(),
		Result:      status.Result(),
		InCheck:     pos.InCheck(),
		ActiveColor: game.ActiveColor(),
		Repetitions: pos.Repetitions(game.History()),
	}
	switch status.Outcome {
	case chess.Checkmate:
		resp.Winner = status.Winner.String()
	case chess.Draw:
		resp.DrawReason = status.Reason.String()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Service) broadcast(gameID, kind string, data interface{}) {
	if s.hub == nil || gameID == "" {
		return
	}
	s.hub.BroadcastToGame(gameID, GameUpdate{Type: kind, Data: data})
}

func decodeRequest(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, r, &badRequestError{err: err})
		return false
	}
	return true
}

// illegalMove classifies a failed move: anything that is not a FEN problem
// is the caller asking for a move the position does not allow.
func illegalMove(err error) error {
	if errors.Is(err, chess.ErrInvalidFEN) || errors.Is(err, chess.ErrIllegalMove) {
		return err
	}
	return &illegalMoveError{err: err}
}
