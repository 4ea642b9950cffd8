package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/justinabrahms/chessai/internal/ai"
	"github.com/justinabrahms/chessai/internal/chess"
)

// Error codes reported in the "error" field of a failed request.
const (
	CodeInvalidFEN      = "InvalidFen"
	CodeIllegalMove     = "IllegalMoveRequested"
	CodeGameAlreadyOver = "GameAlreadyOver"
	CodeNoLegalMoves    = "NoLegalMoves"
	CodeTimeout         = "Timeout"
	CodeBadRequest      = "BadRequest"
	CodeInternal        = "InternalError"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type badRequestError struct {
	err error
}

func (e *badRequestError) Error() string { return "invalid request body: " + e.err.Error() }
func (e *badRequestError) Unwrap() error { return e.err }

type illegalMoveError struct {
	err error
}

func (e *illegalMoveError) Error() string { return e.err.Error() }
func (e *illegalMoveError) Unwrap() error { return e.err }

func (e *illegalMoveError) Is(target error) bool {
	return target == chess.ErrIllegalMove
}

// classify maps an error to its HTTP status and error code.
func classify(err error) (int, string) {
	var badRequest *badRequestError
	switch {
	case errors.As(err, &badRequest):
		return http.StatusBadRequest, CodeBadRequest
	case errors.Is(err, chess.ErrInvalidFEN):
		return http.StatusBadRequest, CodeInvalidFEN
	case errors.Is(err, chess.ErrIllegalMove):
		return http.StatusBadRequest, CodeIllegalMove
	case errors.Is(err, ai.ErrUnknownDifficulty):
		return http.StatusBadRequest, CodeBadRequest
	case errors.Is(err, ai.ErrGameAlreadyOver):
		return http.StatusConflict, CodeGameAlreadyOver
	case errors.Is(err, ai.ErrNoLegalMoves):
		return http.StatusConflict, CodeNoLegalMoves
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, CodeTimeout
	}
	return http.StatusInternalServerError, CodeInternal
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)

	event := hlog.FromRequest(r).Warn()
	if status >= http.StatusInternalServerError {
		event = hlog.FromRequest(r).Error()
	}
	event.Err(err).Str("code", code).Int("status", status).Msg("Request failed")

	writeJSON(w, status, ErrorResponse{Error: code, Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
