package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/justinabrahms/chessai/internal/ai"
	"github.com/justinabrahms/chessai/internal/chess"
)

type options struct {
	white    ai.Difficulty
	black    ai.Difficulty
	games    int
	seed     int64
	depth    int
	maxPlies int
	fen      string
	verbose  bool
}

func main() {
	var (
		opts         options
		white, black string
	)
	flag.StringVar(&white, "white", "medium", "Difficulty playing white (easy, medium, hard)")
	flag.StringVar(&black, "black", "easy", "Difficulty playing black (easy, medium, hard)")
	flag.IntVar(&opts.games, "games", 10, "Number of games to play")
	flag.Int64Var(&opts.seed, "seed", 1, "Seed of the first game; game i uses seed+i")
	flag.IntVar(&opts.depth, "depth", 2, "Search depth for hard")
	flag.IntVar(&opts.maxPlies, "max-plies", 300, "Stop a game after this many plies")
	flag.StringVar(&opts.fen, "fen", chess.StartFEN, "Starting position")
	flag.BoolVar(&opts.verbose, "v", false, "Log every move")
	flag.Parse()

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
	if !opts.verbose {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	var err error
	if opts.white, err = ai.ParseDifficulty(white); err != nil {
		log.Fatal().Err(err).Msg("Invalid -white")
	}
	if opts.black, err = ai.ParseDifficulty(black); err != nil {
		log.Fatal().Err(err).Msg("Invalid -black")
	}
	if _, err := chess.DecodeFEN(opts.fen); err != nil {
		log.Fatal().Err(err).Msg("Invalid -fen")
	}

	engine := ai.New(ai.WithHardDepth(opts.depth))
	tally := make(map[string]int)
	for i := 0; i < opts.games; i++ {
		record, err := playGame(engine, opts, opts.seed+int64(i))
		if err != nil {
			log.Fatal().Err(err).Int("game", i+1).Msg("Game failed")
		}
		tally[record.result]++
		log.Info().
			Int("game", i+1).
			Str("result", record.result).
			Str("reason", record.reason).
			Int("plies", record.plies).
			Msg("Game finished")
		pgn, err := record.pgn(opts, i+1)
		if err != nil {
			log.Fatal().Err(err).Int("game", i+1).Msg("Failed to render PGN")
		}
		fmt.Println(pgn)
		fmt.Println()
	}

	log.Info().
		Int("whiteWins", tally["1-0"]).
		Int("blackWins", tally["0-1"]).
		Int("draws", tally["1/2-1/2"]).
		Int("unfinished", tally["*"]).
		Str("white", opts.white.String()).
		Str("black", opts.black.String()).
		Msg("Match finished")
}

type gameRecord struct {
	game   *chess.Game
	plies  int
	result string
	reason string
}

// pgn renders the game with tags naming the players.
func (g *gameRecord) pgn(opts options, round int) (string, error) {
	return g.game.PGN(
		chess.PGNTag{Key: "Event", Value: "selfplay"},
		chess.PGNTag{Key: "Round", Value: strconv.Itoa(round)},
		chess.PGNTag{Key: "White", Value: opts.white.String()},
		chess.PGNTag{Key: "Black", Value: opts.black.String()},
		chess.PGNTag{Key: "Result", Value: g.result},
	)
}

func playGame(engine *ai.Engine, opts options, seed int64) (*gameRecord, error) {
	game, err := chess.NewGameFromFEN(opts.fen)
	if err != nil {
		return nil, err
	}
	record := &gameRecord{game: game, result: "*", reason: "move limit"}

	for ply := 0; ply < opts.maxPlies; ply++ {
		status := game.Status()
		if status.IsOver() {
			record.result = status.Result()
			record.reason = status.Outcome.String()
			if status.Outcome == chess.Draw {
				record.reason = status.Reason.String()
			}
			return record, nil
		}

		difficulty := opts.white
		if game.Position().Turn == chess.Black {
			difficulty = opts.black
		}
		move, err := engine.ChooseMove(game.Position(), difficulty, seed*1000003+int64(ply))
		if err != nil {
			return nil, fmt.Errorf("ply %d: %w", ply, err)
		}
		result, err := game.MakeMove(move.From.String(), move.To.String(), move.Promotion)
		if err != nil {
			return nil, fmt.Errorf("ply %d: %w", ply, err)
		}
		record.plies++
		log.Debug().Int("ply", ply).Str("difficulty", difficulty.String()).Str("san", result.SAN).Str("fen", result.FEN).Msg("Move played")
	}
	return record, nil
}
