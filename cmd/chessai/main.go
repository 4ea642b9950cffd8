package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/justinabrahms/chessai/internal/ai"
	"github.com/justinabrahms/chessai/internal/config"
	"github.com/justinabrahms/chessai/internal/web"
)

func main() {
	// Parse command line flags
	var (
		showHelp   bool
		configPath string
		staticDir  string
	)
	flag.BoolVar(&showHelp, "help", false, "Show help information")
	flag.BoolVar(&showHelp, "h", false, "Show help information")
	flag.StringVar(&configPath, "config", "", "Path to a config file (default: config.yaml in . or ./config)")
	flag.StringVar(&staticDir, "static", "", "Directory of static files to serve at /")
	flag.Parse()

	if showHelp {
		showHelpMessage()
		return
	}

	// Setup logging
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	// Load config
	cfg, err := loadConfig(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	setupLogging(cfg)

	engine := ai.New(
		ai.WithHardDepth(cfg.Engine.HardDepth),
		ai.WithDefaultDifficulty(cfg.Difficulty()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := web.NewHub()
	go hub.Run(ctx)

	service := web.NewService(engine, cfg, hub)
	router := web.NewRouter(service, log.Logger)
	if staticDir != "" {
		router.PathPrefix("/").Handler(http.FileServer(http.Dir(staticDir)))
	}

	// Create server
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Engine.MoveTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("defaultDifficulty", cfg.Engine.DefaultDifficulty).
			Int("hardDepth", cfg.Engine.HardDepth).
			Dur("moveTimeout", cfg.Engine.MoveTimeout).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()
	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Development.LogLevel)
	if err != nil || cfg.Development.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	if cfg.Development.Debug {
		level = zerolog.DebugLevel
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	zerolog.SetGlobalLevel(level)
}

func showHelpMessage() {
	fmt.Println(`ChessAI Service

DESCRIPTION:
    HTTP service for playing chess against a computer opponent.
    Validates moves, detects checkmate, stalemate and draws, and chooses
    computer moves at three difficulty levels. Every request carries the
    position as a FEN string; the service keeps no game state.

USAGE:
    chessai [OPTIONS]

OPTIONS:
    -h, --help       Show this help message
    --config PATH    Read configuration from PATH
    --static DIR     Serve static files from DIR at /

CONFIGURATION:
    The service is configured via config.yaml in the current directory.
    Every key can be overridden with a CHESSAI_ environment variable,
    e.g. CHESSAI_ENGINE_HARD_DEPTH=4.

    Example config.yaml:
        server:
          host: localhost
          port: 8080

        engine:
          default_difficulty: medium   # easy, medium or hard
          hard_depth: 3                # search depth in plies for hard
          move_timeout: 10s            # give up on a computer move after this

        development:
          debug: true
          log_level: debug

API ENDPOINTS:
    GET  /api/health                  - Service health check
    POST /api/ai/move                 - Choose a computer move
    POST /api/ai/evaluate             - Evaluate a position
    POST /api/moves                   - Validate and play a move
    POST /api/moves/legal             - List the legal moves of a position
    POST /api/status                  - Report checkmate, stalemate or draw
    GET  /api/games/{id}/spectators   - Count clients watching a game
    GET  /api/ws?gameId=ID            - WebSocket feed of moves for a game

BEHAVIOR:
    - Moves sent with a game_id are pushed to WebSocket clients of that game
    - Computer moves exceeding engine.move_timeout fail with 503
    - Graceful shutdown on SIGINT/SIGTERM

EXAMPLES:
    # Start with default configuration
    chessai

    # Ask for a computer move
    curl -X POST http://localhost:8080/api/ai/move \
      -H "Content-Type: application/json" \
      -d '{"fen": "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1", "difficulty": "hard"}'

SEE ALSO:
    selfplay(1), config.yaml(5)`)
}
