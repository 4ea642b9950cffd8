package chess

import (
	"encoding/json"
	"testing"
)

// TestMoveResultJSONSerializationAlwaysIncludesRequiredFields ensures that
// MoveResult structs always serialize to JSON with the expected field names
func TestMoveResultJSONSerializationAlwaysIncludesRequiredFields(t *testing.T) {
	game := NewGame()
	moveResult, err := game.MakeMove("e2", "e4", NoPieceType)
	if err != nil {
		t.Fatalf("Failed to make move: %v", err)
	}

	jsonData, err := json.Marshal(moveResult)
	if err != nil {
		t.Fatalf("Failed to marshal MoveResult: %v", err)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(jsonData, &parsed); err != nil {
		t.Fatalf("Failed to unmarshal JSON: %v", err)
	}

	expectedFields := []string{"from", "to", "uci", "san", "fen", "check", "checkmate", "stalemate", "draw", "gameOver", "result"}
	for _, field := range expectedFields {
		if _, exists := parsed[field]; !exists {
			t.Errorf("Missing field in JSON: %s", field)
		}
	}

	// Optional fields stay out of ordinary moves
	for _, field := range []string{"promotion", "drawReason"} {
		if _, exists := parsed[field]; exists {
			t.Errorf("Unexpected field in JSON: %s", field)
		}
	}

	if parsed["from"] != "e2" {
		t.Errorf("Expected from=e2, got %v", parsed["from"])
	}
	if parsed["san"] != "e4" {
		t.Errorf("Expected san=e4, got %v", parsed["san"])
	}
	if parsed["fen"] != moveResult.FEN {
		t.Errorf("Expected fen=%s, got %v", moveResult.FEN, parsed["fen"])
	}
	if parsed["result"] != "*" {
		t.Errorf("Expected result=*, got %v", parsed["result"])
	}
}

// TestFENValidationRejectsInvalidInput ensures that the engine properly
// validates FEN strings and rejects invalid input
func TestFENValidationRejectsInvalidInput(t *testing.T) {
	testCases := []struct {
		name     string
		fen      string
		expected bool // whether it should be valid
	}{
		{
			name:     "Empty FEN should be rejected",
			fen:      "",
			expected: false,
		},
		{
			name:     "Valid starting position should be accepted",
			fen:      "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
			expected: true,
		},
		{
			name:     "Invalid FEN with too few sections should be rejected",
			fen:      "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq",
			expected: false,
		},
		{
			name:     "Valid mid-game position should be accepted",
			fen:      "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
			expected: true,
		},
		{
			name:     "Invalid board configuration should be rejected",
			fen:      "invalid/board/config/here w KQkq - 0 1",
			expected: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewGameFromFEN(tc.fen)

			if tc.expected && err != nil {
				t.Errorf("Expected valid FEN, got error: %v", err)
			}
			if !tc.expected && err == nil {
				t.Errorf("Expected invalid FEN to return error, got nil")
			}
		})
	}
}

// TestMoveValidationEnforcesChessRules ensures that the engine properly
// validates moves according to chess rules
func TestMoveValidationEnforcesChessRules(t *testing.T) {
	testCases := []struct {
		name     string
		from     string
		to       string
		expected bool // whether move should be valid
	}{
		{
			name:     "Valid pawn move should be accepted",
			from:     "e2",
			to:       "e4",
			expected: true,
		},
		{
			name:     "Invalid pawn move should be rejected",
			from:     "e2",
			to:       "e5",
			expected: false,
		},
		{
			name:     "Valid knight move should be accepted",
			from:     "g1",
			to:       "f3",
			expected: true,
		},
		{
			name:     "Invalid knight move should be rejected",
			from:     "g1",
			to:       "e2",
			expected: false,
		},
		{
			name:     "Move to occupied square by same color should be rejected",
			from:     "e2",
			to:       "d1",
			expected: false,
		},
		{
			name:     "Moving the opponent's piece should be rejected",
			from:     "e7",
			to:       "e5",
			expected: false,
		},
		{
			name:     "Moving from an empty square should be rejected",
			from:     "e4",
			to:       "e5",
			expected: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			game := NewGame()
			_, err := game.MakeMove(tc.from, tc.to, NoPieceType)

			if tc.expected && err != nil {
				t.Errorf("Expected valid move, got error: %v", err)
			}
			if !tc.expected && err == nil {
				t.Errorf("Expected invalid move to return error, got nil")
			}
		})
	}
}

// TestLegalMovesNeverLeaveKingInCheck plays every legal move from a set of
// positions and checks the mover's king is safe afterwards.
func TestLegalMovesNeverLeaveKingInCheck(t *testing.T) {
	for _, fen := range fenCorpus {
		pos := mustDecode(t, fen)
		for _, m := range pos.LegalMoves() {
			next, err := pos.Apply(m)
			if err != nil {
				t.Fatalf("Apply(%s) failed: %v", m, err)
			}
			if next.IsAttacked(next.KingSquare(pos.Turn), next.Turn) {
				t.Errorf("%s from %s leaves the king in check", m, fen)
			}
		}
	}
}
