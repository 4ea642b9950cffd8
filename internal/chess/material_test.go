package chess

import (
	"testing"
)

func TestGetMaterialCount(t *testing.T) {
	tests := []struct {
		name            string
		fen             string
		expectedWhite   int
		expectedBlack   int
		expectedBalance int
	}{
		{
			name:            "Starting position",
			fen:             "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
			expectedWhite:   39, // 8 pawns (8) + 2 knights (6) + 2 bishops (6) + 2 rooks (10) + 1 queen (9)
			expectedBlack:   39,
			expectedBalance: 0,
		},
		{
			name:            "White up a pawn",
			fen:             "rnbqkbnr/ppp1pppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
			expectedWhite:   39,
			expectedBlack:   38,
			expectedBalance: 1,
		},
		{
			name:            "Black up a knight",
			fen:             "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/R1BQKBNR w KQkq - 0 1",
			expectedWhite:   36,
			expectedBlack:   39,
			expectedBalance: -3,
		},
		{
			name:            "Endgame - King and pawn vs King",
			fen:             "8/8/8/8/4P3/8/8/4K2k w - - 0 1",
			expectedWhite:   1,
			expectedBlack:   0,
			expectedBalance: 1,
		},
		{
			name:            "Queen endgame",
			fen:             "8/8/8/8/8/8/4Q3/4K2k w - - 0 1",
			expectedWhite:   9,
			expectedBlack:   0,
			expectedBalance: 9,
		},
		{
			name:            "Rook and pawn endgame",
			fen:             "8/8/8/8/8/p7/P7/R3K2k w - - 0 1",
			expectedWhite:   6, // Rook (5) + Pawn (1)
			expectedBlack:   1, // Pawn (1)
			expectedBalance: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			game, err := NewGameFromFEN(tt.fen)
			if err != nil {
				t.Fatalf("Failed to load FEN: %v", err)
			}

			count := game.MaterialCount()
			if count.White != tt.expectedWhite {
				t.Errorf("White material: expected %d, got %d", tt.expectedWhite, count.White)
			}
			if count.Black != tt.expectedBlack {
				t.Errorf("Black material: expected %d, got %d", tt.expectedBlack, count.Black)
			}

			balance := game.MaterialBalance()
			if balance != tt.expectedBalance {
				t.Errorf("Material balance: expected %d, got %d", tt.expectedBalance, balance)
			}
		})
	}
}

func TestGetPieceValues(t *testing.T) {
	game := NewGame()
	values := game.PieceValues()

	expected := map[string]int{
		"pawn":   1,
		"knight": 3,
		"bishop": 3,
		"rook":   5,
		"queen":  9,
		"king":   0,
	}

	for piece, expectedValue := range expected {
		if value, ok := values[piece]; !ok {
			t.Errorf("Missing piece value for %s", piece)
		} else if value != expectedValue {
			t.Errorf("Piece %s: expected value %d, got %d", piece, expectedValue, value)
		}
	}

	// The returned map is a copy.
	values["queen"] = 100
	if StandardPieceValues["queen"] != 9 {
		t.Error("Expected PieceValues to return a copy")
	}
}

func TestMaterialCountAfterCaptures(t *testing.T) {
	game := NewGame()

	// Verify starting material
	count := game.MaterialCount()
	if count.White != 39 || count.Black != 39 {
		t.Errorf("Starting material incorrect: White=%d, Black=%d", count.White, count.Black)
	}

	// Play some moves leading to a capture
	moves := []struct {
		from string
		to   string
	}{
		{"e2", "e4"},
		{"d7", "d5"},
		{"e4", "d5"}, // White pawn captures black pawn
	}

	for _, move := range moves {
		if _, err := game.MakeMove(move.from, move.to, NoPieceType); err != nil {
			t.Fatalf("Move %s-%s failed: %v", move.from, move.to, err)
		}
	}

	// After capture, white should have all pieces, black should be down a pawn
	count = game.MaterialCount()
	if count.White != 39 {
		t.Errorf("White material after capture: expected 39, got %d", count.White)
	}
	if count.Black != 38 {
		t.Errorf("Black material after capture: expected 38, got %d", count.Black)
	}

	balance := game.MaterialBalance()
	if balance != 1 {
		t.Errorf("Material balance after pawn capture: expected 1, got %d", balance)
	}
}

func TestMaterialCountAfterSpecialMoves(t *testing.T) {
	tests := []struct {
		name          string
		fen           string
		from, to      string
		promotion     PieceType
		expectedWhite int
		expectedBlack int
	}{
		{"Promotion to queen", "8/P6k/8/8/8/8/8/K7 w - - 0 1", "a7", "a8", Queen, 9, 0},
		{"Under-promotion to knight", "8/P6k/8/8/8/8/8/K7 w - - 0 1", "a7", "a8", Knight, 3, 0},
		{"Capture promotion", "1r5k/P7/8/8/8/8/8/K7 w - - 0 1", "a7", "b8", Queen, 9, 0},
		{"En passant", "4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1", "e5", "d6", NoPieceType, 1, 0},
		{"Black promotes", "K7/8/8/8/8/8/p6k/8 b - - 0 1", "a2", "a1", Rook, 0, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			game, err := NewGameFromFEN(tt.fen)
			if err != nil {
				t.Fatalf("Failed to create game: %v", err)
			}
			if _, err := game.MakeMove(tt.from, tt.to, tt.promotion); err != nil {
				t.Fatalf("Move %s-%s failed: %v", tt.from, tt.to, err)
			}

			count := game.MaterialCount()
			if count.White != tt.expectedWhite || count.Black != tt.expectedBlack {
				t.Errorf("Expected White=%d Black=%d, got White=%d Black=%d",
					tt.expectedWhite, tt.expectedBlack, count.White, count.Black)
			}
			if balance := game.MaterialBalance(); balance != tt.expectedWhite-tt.expectedBlack {
				t.Errorf("Expected balance %d, got %d", tt.expectedWhite-tt.expectedBlack, balance)
			}
		})
	}
}
