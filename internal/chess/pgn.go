package chess

import (
	"fmt"

	notnil "github.com/notnil/chess"
)

// PGNTag is a PGN tag pair such as Event or White.
type PGNTag struct {
	Key   string
	Value string
}

// PGN renders the moves played since the game was created as PGN. The game
// is replayed through github.com/notnil/chess, so a move that library does
// not accept is reported as an error. Games that did not start from the
// standard position carry SetUp and FEN tags.
func (g *Game) PGN(tags ...PGNTag) (string, error) {
	var opts []func(*notnil.Game)
	if startFEN := g.start.FEN(); startFEN != StartFEN {
		fen, err := notnil.FEN(startFEN)
		if err != nil {
			return "", fmt.Errorf("start position: %w", err)
		}
		opts = append(opts, fen)
		tags = append(tags, PGNTag{Key: "SetUp", Value: "1"}, PGNTag{Key: "FEN", Value: startFEN})
	}
	game := notnil.NewGame(opts...)
	for _, tag := range tags {
		game.AddTagPair(tag.Key, tag.Value)
	}

	for i, m := range g.moves {
		move, err := notnil.UCINotation{}.Decode(game.Position(), m.String())
		if err != nil {
			return "", fmt.Errorf("move %d %s: %w", i+1, m, err)
		}
		if err := game.Move(move); err != nil {
			return "", fmt.Errorf("move %d %s: %w", i+1, m, err)
		}
	}

	status := g.Status()
	if status.Outcome == Draw && game.Outcome() == notnil.NoOutcome {
		if err := game.Draw(drawMethod(status.Reason)); err != nil {
			// Repetitions from history given at construction are not
			// visible to the replay.
			if err := game.Draw(notnil.DrawOffer); err != nil {
				return "", err
			}
		}
	}
	// notnil/chess also ends games automatically on dead positions this
	// package does not classify, such as two same-coloured bishops against a
	// lone king, so an ongoing game may replay as drawn.
	if got, want := string(game.Outcome()), status.Result(); status.IsOver() && got != want {
		return "", fmt.Errorf("replayed result %s, expected %s", got, want)
	}
	return game.String(), nil
}

func drawMethod(r DrawReason) notnil.Method {
	switch r {
	case FiftyMoveRule:
		return notnil.FiftyMoveRule
	case ThreefoldRepetition:
		return notnil.ThreefoldRepetition
	}
	return notnil.DrawOffer
}
