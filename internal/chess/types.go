package chess

// GameStatus is the coarse game state reported to clients.
type GameStatus string

const (
	StatusActive   GameStatus = "active"
	StatusDraw     GameStatus = "draw"
	StatusWhiteWon GameStatus = "white_won"
	StatusBlackWon GameStatus = "black_won"
)

// GameStatusOf folds a detailed Status into a GameStatus.
func GameStatusOf(s Status) GameStatus {
	switch s.Outcome {
	case Checkmate:
		if s.Winner == White {
			return StatusWhiteWon
		}
		return StatusBlackWon
	case Stalemate, Draw:
		return StatusDraw
	default:
		return StatusActive
	}
}

type MoveResult struct {
	From       string `json:"from"`
	To         string `json:"to"`
	Promotion  string `json:"promotion,omitempty"`
	UCI        string `json:"uci"`
	SAN        string `json:"san"`
	FEN        string `json:"fen"`
	Check      bool   `json:"check"`
	Checkmate  bool   `json:"checkmate"`
	Stalemate  bool   `json:"stalemate"`
	Draw       bool   `json:"draw"`
	DrawReason string `json:"drawReason,omitempty"`
	GameOver   bool   `json:"gameOver"`
	Result     string `json:"result"`
}

// MaterialCount represents the material count for both sides
type MaterialCount struct {
	White int `json:"white"`
	Black int `json:"black"`
}

// StandardPieceValues maps piece names to their conventional values
var StandardPieceValues = map[string]int{
	"pawn":   1,
	"knight": 3,
	"bishop": 3,
	"rook":   5,
	"queen":  9,
	"king":   0, // King has no material value
}

var pieceValueByType = [...]int{NoPieceType: 0, Pawn: 1, Knight: 3, Bishop: 3, Rook: 5, Queen: 9, King: 0}

// PieceValue returns the conventional value of pt in pawns.
func PieceValue(pt PieceType) int {
	return pieceValueByType[pt]
}

// Material sums the piece values of each side.
func (p *Position) Material() MaterialCount {
	var mc MaterialCount
	for _, pc := range p.Board {
		if pc.IsEmpty() {
			continue
		}
		if pc.Color == White {
			mc.White += PieceValue(pc.Type)
		} else {
			mc.Black += PieceValue(pc.Type)
		}
	}
	return mc
}
