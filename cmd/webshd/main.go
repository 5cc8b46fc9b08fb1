package main

import (
	"log"
	"net/http"
	"os"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/telnet2/go-practice/go-websh/api"
)

// Config is read from WEBSH_* environment variables; flags override it.
type Config struct {
	Addr    string `default:":8080"`
	WorkDir string `split_words:"true" default:"/tmp"`
	MemFs   bool   `split_words:"true" default:"true"`
	Debug   bool   `default:"false"`
}

func main() {
	var cfg Config
	if err := envconfig.Process("websh", &cfg); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pflag.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	pflag.StringVar(&cfg.WorkDir, "workdir", cfg.WorkDir, "Initial working directory")
	pflag.BoolVar(&cfg.MemFs, "memfs", cfg.MemFs, "Use an in-memory filesystem (host filesystem otherwise)")
	pflag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Enable debug logging")
	pflag.Parse()

	logger := newLogger(cfg.Debug)
	defer logger.Sync()

	newFs := func() afero.Fs {
		if cfg.MemFs {
			return afero.NewMemMapFs()
		}
		return afero.NewOsFs()
	}
	fs := newFs()
	if err := fs.MkdirAll(cfg.WorkDir, 0o755); err != nil {
		logger.Fatal("failed to create working directory", zap.Error(err))
	}

	server := api.NewServer(fs, newFs, logger)
	mux := http.NewServeMux()
	server.RegisterRoutes(mux)

	logger.Info("starting server",
		zap.String("addr", cfg.Addr),
		zap.String("workdir", cfg.WorkDir),
		zap.Bool("memfs", cfg.MemFs))
	logger.Info("endpoints",
		zap.Strings("routes", []string{
			"POST /api/exec                 - Execute a command line",
			"POST /api/v1/session/create    - Create new session",
			"POST /api/v1/session/list      - List all sessions",
			"POST /api/v1/session/remove    - Remove a session",
			"WS   /api/v1/session/repl      - JSON-RPC WebSocket REPL",
			"GET  /health                   - Health check",
			"GET  /                         - Browser terminal",
		}))

	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func newLogger(debug bool) *zap.Logger {
	var logger *zap.Logger
	var err error
	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Printf("Failed to create logger: %v", err)
		os.Exit(1)
	}
	return logger
}
