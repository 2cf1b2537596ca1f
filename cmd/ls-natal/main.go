// Command ls-natal is a terminal UI for generating and viewing natal charts.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/litescript/ls-natal/internal/config"
	"github.com/litescript/ls-natal/internal/ephem"
	"github.com/litescript/ls-natal/internal/form"
	"github.com/litescript/ls-natal/internal/logging"
	"github.com/litescript/ls-natal/internal/server"
	"github.com/litescript/ls-natal/internal/state"
	"github.com/litescript/ls-natal/internal/ui"
	"github.com/litescript/ls-natal/internal/version"
)

// CLI flags for headless mode
var (
	birth       form.Input
	summaryMode bool
	tableMode   bool
	jsonPath    string
	wheelMode   bool
	pngPath     string
	svgPath     string
	healthMode  bool
	offline     bool
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "serve" {
		os.Exit(runServe(os.Args[2:]))
	}
	os.Exit(run())
}

// run parses the flags and runs the selected mode. Returns the process
// exit code so deferred cleanup runs before exit.
func run() int {
	configPath := flag.String("config", "", "Config file (default "+config.DefaultPath+" if present)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error); overrides config")
	apiURL := flag.String("api", "", "Chart service base URL; overrides config")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.StringVar(&birth.Date, "date", "", "Birth date (YYYY-MM-DD)")
	flag.StringVar(&birth.Time, "time", "", "Birth time (HH:MM or HH:MM:SS)")
	flag.StringVar(&birth.Country, "country", "", "Birth country")
	flag.StringVar(&birth.City, "city", "", "Birth city")
	flag.BoolVar(&summaryMode, "summary", false, "Print a one-line chart summary instead of the TUI")
	flag.BoolVar(&tableMode, "table", false, "Print the positions table and aspects")
	flag.StringVar(&jsonPath, "json", "", "Export the chart as JSON to file (use - for stdout)")
	flag.BoolVar(&wheelMode, "wheel", false, "Print the chart wheel as text")
	flag.StringVar(&pngPath, "png", "", "Render the chart wheel to a PNG file")
	flag.StringVar(&svgPath, "svg", "", "Render the chart wheel to an SVG file (use - for stdout)")
	flag.BoolVar(&healthMode, "health", false, "Check the chart service and exit")
	flag.BoolVar(&offline, "offline", false, "Use the built-in demo chart instead of the chart service")
	flag.Parse()

	if *showVersion {
		fmt.Println("ls-natal", version.Version)
		return 0
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *apiURL != "" {
		cfg.Service.BaseURL = *apiURL
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	provider := newProvider(cfg, offline, logger)

	if healthMode {
		return runHealth(ctx, provider, os.Stdout, os.Stderr)
	}

	stateCfg := state.DefaultConfig()
	stateCfg.Logger = logger
	ctrl := state.NewController(provider, stateCfg)

	headless := summaryMode || tableMode || jsonPath != "" || wheelMode || pngPath != "" || svgPath != ""
	if headless {
		return runHeadless(ctx, ctrl, cfg, os.Stdout, os.Stderr)
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: the interactive UI needs a terminal; use -summary, -table or -json")
		return 2
	}

	// stderr logging would draw over the TUI
	if cfg.Logging.Output == "stderr" || cfg.Logging.Output == "stdout" {
		logger.SetOutput(io.Discard)
	}

	ctrl.SetInput(birth)
	model := ui.New(ctx, ctrl, form.DefaultMessages)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		return 1
	}
	return 0
}

func newLogger(cfg *config.Config) (*logging.Logger, error) {
	logger := logging.New(logging.ParseLevel(cfg.Logging.Level))
	if err := logger.Configure(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output, cfg.Logging.MaxAge); err != nil {
		return nil, err
	}
	return logger, nil
}

func newProvider(cfg *config.Config, demo bool, logger *logging.Logger) ephem.Provider {
	if demo {
		logger.Debug("using built-in demo chart")
		return ephem.NewDemoProvider()
	}
	opts := []ephem.ClientOption{
		ephem.WithBaseURL(cfg.Service.BaseURL),
		ephem.WithTimeout(cfg.Service.Timeout),
		ephem.WithLogger(logger),
	}
	if rl := cfg.Service.RateLimit; rl.RequestsPerSecond > 0 {
		opts = append(opts, ephem.WithRateLimit(rl.RequestsPerSecond, rl.Burst))
	}
	return ephem.NewClient(opts...)
}

// runServe starts the demo chart service.
func runServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "Config file (default "+config.DefaultPath+" if present)")
	addr := fs.String("addr", "", "Listen address; overrides config")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error); overrides config")
	_ = fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := server.New(ephem.NewDemoProvider(), server.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		AllowOrigins: cfg.Server.AllowOrigins,
		Logger:       logger,
	})
	if err := server.Run(ctx, app, cfg.Server.Addr, logger); err != nil {
		logger.Error("server stopped: %v", err)
		return 1
	}
	return 0
}
