package chess

// Outcome classifies a position.
type Outcome uint8

const (
	Ongoing Outcome = iota
	Checkmate
	Stalemate
	Draw
)

var outcomeNames = [...]string{"ongoing", "checkmate", "stalemate", "draw"}

func (o Outcome) String() string {
	return outcomeNames[o]
}

// DrawReason says why a position is drawn. Reasons are listed in reporting priority.
type DrawReason uint8

const (
	NoDraw DrawReason = iota
	InsufficientMaterial
	FiftyMoveRule
	ThreefoldRepetition
)

var drawReasonNames = [...]string{"", "insufficient_material", "fifty_move_rule", "threefold_repetition"}

func (r DrawReason) String() string {
	return drawReasonNames[r]
}

// FiftyMoveLimit is the halfmove clock value at which the game is drawn.
const FiftyMoveLimit = 100

// Status is the result of classifying a position.
type Status struct {
	Outcome Outcome
	// Winner is meaningful only for Checkmate.
	Winner Color
	// Reason is meaningful only for Draw.
	Reason DrawReason
}

// IsOver reports whether the game has ended.
func (s Status) IsOver() bool {
	return s.Outcome != Ongoing
}

// Result returns the PGN style result: "1-0", "0-1", "1/2-1/2" or "*".
func (s Status) Result() string {
	switch s.Outcome {
	case Checkmate:
		if s.Winner == White {
			return "1-0"
		}
		return "0-1"
	case Stalemate, Draw:
		return "1/2-1/2"
	}
	return "*"
}

func (s Status) String() string {
	switch s.Outcome {
	case Checkmate:
		return "checkmate(" + s.Winner.String() + ")"
	case Draw:
		return "draw(" + s.Reason.String() + ")"
	}
	return s.Outcome.String()
}

// Status classifies the position. history holds the earlier positions of the
// game, oldest first, and is only consulted for threefold repetition; the
// receiver itself counts as one occurrence and should not be in history.
func (p *Position) Status(history []Position) Status {
	if !p.HasLegalMoves() {
		if p.InCheck() {
			return Status{Outcome: Checkmate, Winner: p.Turn.Other()}
		}
		return Status{Outcome: Stalemate}
	}
	if reason := p.drawReason(history); reason != NoDraw {
		return Status{Outcome: Draw, Reason: reason}
	}
	return Status{Outcome: Ongoing}
}

func (p *Position) drawReason(history []Position) DrawReason {
	if p.InsufficientMaterial() {
		return InsufficientMaterial
	}
	if p.HalfmoveClock >= FiftyMoveLimit {
		return FiftyMoveRule
	}
	if p.Repetitions(history) >= 3 {
		return ThreefoldRepetition
	}
	return NoDraw
}

// Repetitions counts how often the position occurs, itself included, given the
// earlier positions of the game.
func (p *Position) Repetitions(history []Position) int {
	key := p.repetitionKey()
	n := 1
	for i := range history {
		if history[i].repetitionKey() == key {
			n++
		}
	}
	return n
}

// InsufficientMaterial reports the dead positions K v K, K+B v K, K+N v K and
// K+B v K+B with both bishops on the same square color.
func (p *Position) InsufficientMaterial() bool {
	var minors [2][]Square
	var knights [2]int
	for sq := Square(0); sq < 64; sq++ {
		pc := p.Board[sq]
		switch pc.Type {
		case NoPieceType, King:
		case Bishop:
			minors[pc.Color] = append(minors[pc.Color], sq)
		case Knight:
			knights[pc.Color]++
			minors[pc.Color] = append(minors[pc.Color], sq)
		default:
			return false
		}
	}

	w, b := len(minors[White]), len(minors[Black])
	switch {
	case w == 0 && b == 0:
		return true
	case w+b == 1:
		return true
	case w == 1 && b == 1 && knights[White] == 0 && knights[Black] == 0:
		return squareColor(minors[White][0]) == squareColor(minors[Black][0])
	}
	return false
}

func squareColor(sq Square) int {
	return (sq.File() + sq.Rank()) & 1
}
