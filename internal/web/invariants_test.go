package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/justinabrahms/chessai/internal/ai"
	"github.com/justinabrahms/chessai/internal/chess"
	"github.com/justinabrahms/chessai/internal/config"
)

func newTestRouter(t *testing.T, hub *Hub) http.Handler {
	t.Helper()
	cfg := config.Default()
	cfg.Engine.HardDepth = 2
	engine := ai.New(ai.WithHardDepth(cfg.Engine.HardDepth), ai.WithSeedSource(func() int64 { return 1 }))
	return NewRouter(NewService(engine, cfg, hub), zerolog.Nop())
}

func postJSON(t *testing.T, router http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	reqBody, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to marshal request: %v", err)
	}
	req := httptest.NewRequest("POST", path, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode error body %q: %v", w.Body.String(), err)
	}
	return resp
}

// TestCORSHeadersAlwaysPresentOnPreflightRequests ensures that CORS headers
// are properly set on OPTIONS requests from browsers
func TestCORSHeadersAlwaysPresentOnPreflightRequests(t *testing.T) {
	router := newTestRouter(t, nil)

	for _, path := range []string{"/api/moves", "/api/ai/move", "/api/ai/evaluate"} {
		req := httptest.NewRequest("OPTIONS", path, nil)
		req.Header.Set("Origin", "http://localhost:8081")
		req.Header.Set("Access-Control-Request-Method", "POST")
		req.Header.Set("Access-Control-Request-Headers", "content-type")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("%s: expected status 200, got %d", path, w.Code)
		}
		if w.Header().Get("Access-Control-Allow-Origin") != "*" {
			t.Errorf("%s: expected Access-Control-Allow-Origin: *, got %s", path, w.Header().Get("Access-Control-Allow-Origin"))
		}
		if !strings.Contains(w.Header().Get("Access-Control-Allow-Methods"), "POST") {
			t.Errorf("%s: expected Access-Control-Allow-Methods to contain POST, got %s", path, w.Header().Get("Access-Control-Allow-Methods"))
		}
		if !strings.Contains(w.Header().Get("Access-Control-Allow-Headers"), "Content-Type") {
			t.Errorf("%s: expected Access-Control-Allow-Headers to contain Content-Type, got %s", path, w.Header().Get("Access-Control-Allow-Headers"))
		}
	}
}

// TestRequestIDIsEchoed ensures every response carries a request id, reusing
// the caller's when given.
func TestRequestIDIsEchoed(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("Expected a generated X-Request-ID")
	}

	req = httptest.NewRequest("GET", "/api/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("Expected X-Request-ID abc-123, got %s", got)
	}
}

// TestMoveRequestsUseBodyForGameID ensures that move requests carry the game
// id in the request body rather than the URL path
func TestMoveRequestsUseBodyForGameID(t *testing.T) {
	router := newTestRouter(t, NewHub())

	w := postJSON(t, router, "/api/moves", map[string]interface{}{
		"from":    "e2",
		"to":      "e4",
		"fen":     chess.StartFEN,
		"game_id": "game/with/slashes",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected move request to succeed, got status %d: %s", w.Code, w.Body.String())
	}

	var result chess.MoveResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result.SAN != "e4" {
		t.Errorf("Expected SAN e4, got %s", result.SAN)
	}
	if result.FEN != "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1" {
		t.Errorf("Unexpected FEN %s", result.FEN)
	}
}

// TestErrorResponsesUseTypedCodes ensures every failure is reported with its
// error code and matching HTTP status
func TestErrorResponsesUseTypedCodes(t *testing.T) {
	router := newTestRouter(t, nil)
	mated := "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3"

	testCases := []struct {
		name       string
		path       string
		body       interface{}
		wantStatus int
		wantCode   string
	}{
		{"invalid FEN for AI", "/api/ai/move", map[string]string{"fen": "not-a-fen", "difficulty": "easy"}, http.StatusBadRequest, CodeInvalidFEN},
		{"unknown difficulty", "/api/ai/move", map[string]string{"fen": chess.StartFEN, "difficulty": "godlike"}, http.StatusBadRequest, CodeBadRequest},
		{"AI move on checkmate", "/api/ai/move", map[string]string{"fen": mated, "difficulty": "hard"}, http.StatusConflict, CodeGameAlreadyOver},
		{"illegal human move", "/api/moves", map[string]string{"fen": chess.StartFEN, "from": "e2", "to": "e5"}, http.StatusBadRequest, CodeIllegalMove},
		{"bad square", "/api/moves", map[string]string{"fen": chess.StartFEN, "from": "z9", "to": "e5"}, http.StatusBadRequest, CodeIllegalMove},
		{"human move on checkmate", "/api/moves", map[string]string{"fen": mated, "from": "e2", "to": "e4"}, http.StatusConflict, CodeGameAlreadyOver},
		{"invalid FEN for evaluate", "/api/ai/evaluate", map[string]string{"fen": "8/8/8"}, http.StatusBadRequest, CodeInvalidFEN},
		{"invalid FEN for legal moves", "/api/moves/legal", map[string]string{"fen": ""}, http.StatusBadRequest, CodeInvalidFEN},
		{"malformed body", "/api/status", "just a string", http.StatusBadRequest, CodeBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := postJSON(t, router, tc.path, tc.body)
			if w.Code != tc.wantStatus {
				t.Errorf("Expected status %d, got %d: %s", tc.wantStatus, w.Code, w.Body.String())
			}
			if resp := decodeError(t, w); resp.Error != tc.wantCode {
				t.Errorf("Expected error code %s, got %s (%s)", tc.wantCode, resp.Error, resp.Message)
			}
		})
	}
}

// TestIllegalMoveLeavesPositionUnchanged ensures a rejected move reports no
// new position
func TestIllegalMoveLeavesPositionUnchanged(t *testing.T) {
	router := newTestRouter(t, nil)

	w := postJSON(t, router, "/api/moves", map[string]string{"fen": chess.StartFEN, "from": "e1", "to": "e2"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), `"fen"`) {
		t.Errorf("Error response should not carry a position: %s", w.Body.String())
	}
}

func TestAIMoveHandler(t *testing.T) {
	router := newTestRouter(t, nil)

	for _, difficulty := range []string{"easy", "medium", "hard"} {
		t.Run(difficulty, func(t *testing.T) {
			w := postJSON(t, router, "/api/ai/move", map[string]interface{}{
				"fen":        chess.StartFEN,
				"difficulty": difficulty,
				"seed":       7,
			})
			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
			}

			var resp ai.Response
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}

			pos := chess.StartPosition()
			m, err := chess.ParseUCI(resp.UCI)
			if err != nil {
				t.Fatalf("Bad UCI %q: %v", resp.UCI, err)
			}
			if !pos.LegalMoves().Contains(m) {
				t.Errorf("Returned move %s is not legal", resp.UCI)
			}
			if resp.Seed != 7 {
				t.Errorf("Expected seed 7 echoed, got %d", resp.Seed)
			}
			if string(resp.Difficulty) != difficulty {
				t.Errorf("Expected difficulty %s, got %s", difficulty, resp.Difficulty)
			}
		})
	}
}

func TestAIMoveHandlerTimeout(t *testing.T) {
	cfg := config.Default()
	cfg.Engine.MoveTimeout = time.Nanosecond
	engine := ai.New(ai.WithHardDepth(3))
	router := NewRouter(NewService(engine, cfg, nil), zerolog.Nop())

	w := postJSON(t, router, "/api/ai/move", map[string]interface{}{
		"fen":        "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"difficulty": "hard",
	})
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("Expected status 503, got %d: %s", w.Code, w.Body.String())
	}
	if resp := decodeError(t, w); resp.Error != CodeTimeout {
		t.Errorf("Expected error code %s, got %s", CodeTimeout, resp.Error)
	}
}

func TestAIMoveHandlerClientGone(t *testing.T) {
	cfg := config.Default()
	engine := ai.New(ai.WithHardDepth(3))
	router := NewRouter(NewService(engine, cfg, nil), zerolog.Nop())

	body := `{"fen": "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", "difficulty": "hard"}`
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest("POST", "/api/ai/move", strings.NewReader(body)).WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Body.Len() != 0 {
		t.Errorf("Expected no response for a cancelled request, got %d: %s", w.Code, w.Body.String())
	}
}

func TestMakeMoveHandlerRejectsUnknownPromotion(t *testing.T) {
	router := newTestRouter(t, nil)

	tests := []struct {
		name      string
		fen       string
		from, to  string
		promotion string
	}{
		{"quiet move", chess.StartFEN, "e2", "e4", "x"},
		{"promotion move", "8/P6k/8/8/8/8/8/K7 w - - 0 1", "a7", "a8", "k"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, router, "/api/moves", map[string]string{
				"fen": tt.fen, "from": tt.from, "to": tt.to, "promotion": tt.promotion,
			})
			if w.Code != http.StatusBadRequest {
				t.Fatalf("Expected status 400, got %d: %s", w.Code, w.Body.String())
			}
			if resp := decodeError(t, w); resp.Error != CodeBadRequest {
				t.Errorf("Expected error code %s, got %s", CodeBadRequest, resp.Error)
			}
		})
	}

	// Upper case piece letters are accepted.
	w := postJSON(t, router, "/api/moves", map[string]string{
		"fen": "8/P6k/8/8/8/8/8/K7 w - - 0 1", "from": "a7", "to": "a8", "promotion": "N",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestEvaluateHandler(t *testing.T) {
	router := newTestRouter(t, nil)

	w := postJSON(t, router, "/api/ai/evaluate", map[string]string{"fen": chess.StartFEN})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var ev ai.Evaluation
	if err := json.Unmarshal(w.Body.Bytes(), &ev); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if ev.Score != 0 {
		t.Errorf("Expected level evaluation, got %d", ev.Score)
	}
	if ev.Material.White != ev.Material.Black {
		t.Errorf("Expected equal material, got %+v", ev.Material)
	}
}

func TestLegalMovesHandler(t *testing.T) {
	router := newTestRouter(t, nil)

	w := postJSON(t, router, "/api/moves/legal", map[string]string{"fen": chess.StartFEN})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp LegalMovesResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Count != 20 || len(resp.Moves) != 20 {
		t.Errorf("Expected 20 moves, got %d (%d listed)", resp.Count, len(resp.Moves))
	}
	if resp.Moves[0].UCI == "" || resp.Moves[0].SAN == "" {
		t.Errorf("Expected UCI and SAN on every move, got %+v", resp.Moves[0])
	}
}

func TestStatusHandler(t *testing.T) {
	router := newTestRouter(t, nil)

	testCases := []struct {
		name        string
		fen         string
		wantOutcome string
		wantResult  string
	}{
		{"start", chess.StartFEN, "ongoing", "*"},
		{"fool's mate", "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3", "checkmate", "0-1"},
		{"stalemate", "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", "stalemate", "1/2-1/2"},
		{"bare kings", "8/8/4k3/8/8/3K4/8/8 w - - 0 1", "draw", "1/2-1/2"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := postJSON(t, router, "/api/status", map[string]string{"fen": tc.fen})
			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
			}
			var resp StatusResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if resp.Outcome != tc.wantOutcome {
				t.Errorf("Expected outcome %s, got %s", tc.wantOutcome, resp.Outcome)
			}
			if resp.Result != tc.wantResult {
				t.Errorf("Expected result %s, got %s", tc.wantResult, resp.Result)
			}
		})
	}
}

func TestUnknownRouteReturnsJSON(t *testing.T) {
	router := newTestRouter(t, nil)
	req := httptest.NewRequest("GET", "/api/nope", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected JSON content type, got %s", ct)
	}
}
