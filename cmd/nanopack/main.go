package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"nanopack/internal/compliance"
	"nanopack/internal/config"
	"nanopack/internal/db"
	"nanopack/internal/genai"
	"nanopack/internal/inventory"
	"nanopack/internal/mcp"
	"nanopack/internal/studio"
	"nanopack/internal/vectorize"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"save": true, "list": true, "delete": true,
	"bundle": true, "templates": true, "serve": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	arg := os.Args[1]
	if cliCommands[arg] {
		return true
	}
	if arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" {
		return true
	}
	return false // Default → MCP server
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
   _  _               ___          _
  | \| |__ _ _ _  ___| _ \__ _ __ | |__
  | .' / _' | ' \/ _ \  _/ _' / _|| / /
  |_|\_\__,_|_||_\___/_| \__,_\__||_\_\

  Packaging artwork studio

  Usage: nanopack <command> [options]
         nanopack --help

  MCP server mode requires piped input.`)
}

// newLogger builds the process logger. CLI commands stay quiet; server
// modes log to stderr.
func newLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

// newSession wires the studio session from configuration.
func newSession(database *sql.DB, cfg *config.Config, log *zap.Logger) *studio.Session {
	client := genai.NewClient(genai.Config{
		APIKey:        cfg.GenAIAPIKey,
		BaseURL:       cfg.GenAIBaseURL,
		ImageModel:    cfg.ImageModel,
		AnalysisModel: cfg.AnalysisModel,
	}, log)
	scanner := compliance.NewScanner(client, log)
	tracer := vectorize.NewCLI(vectorize.WithBinary(cfg.TracerBinary))
	inv := inventory.NewClient(cfg.InventoryBaseURL, log)
	return studio.NewSession(database, client, scanner, tracer, inv, log)
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before DB init (no DB needed)
	if isHelpOrVersion() {
		app := newCLIApp(nil, nil)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not determine home directory: %v\n", err)
		os.Exit(1)
	}

	baseDir := filepath.Join(homeDir, ".nanopack")

	database, err := db.Init(baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to initialize database: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	cfg, err := config.Load(baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}
	db.ConfigurePool(database, cfg)

	// CLI mode: known subcommand
	if isCLIMode() {
		app := newCLIApp(database, cfg)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'nanopack --help' for usage.\n")
		os.Exit(1)
	}

	// MCP server mode (default)
	log := newLogger(true)
	defer log.Sync()
	session := newSession(database, cfg, log)
	inv := inventory.NewClient(cfg.InventoryBaseURL, log)
	bundleDir := filepath.Join(baseDir, "bundles")
	if err := mcp.Run(database, session, inv, bundleDir, cfg, Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
