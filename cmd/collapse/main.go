package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/collapse"
	"github.com/fwojciec/collapse/config"
	"github.com/fwojciec/collapse/fs"
	colhttp "github.com/fwojciec/collapse/http"
	"github.com/fwojciec/collapse/markdown"
	colslog "github.com/fwojciec/collapse/slog"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Source overrides the file and URL sources. Set before calling Run().
	Source collapse.Source

	// Discoverer overrides sitemap discovery.
	Discoverer collapse.Discoverer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("collapse"),
		kong.Description("Prepare collapsible blocks in content pages and replay interaction with them"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'collapse --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(cli.Config)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", collapse.ErrorMessage(err))
		return err
	}
	deps.Config = cfg
	deps.Logger = newLogger(stderr, cfg.LogLevel, cli.Verbose)

	// URL loads and sitemap fetches share the per-host rate limit.
	limiter := colhttp.NewDomainLimiter(cfg.RateLimit)

	source := m.Source
	if source == nil {
		source = NewRoutingSource(fs.NewSource(), colhttp.NewSource(colhttp.WithRateLimiter(limiter)))
	}
	deps.Source = colslog.NewLoggingSource(source, deps.Logger)

	deps.Discoverer = m.Discoverer
	if deps.Discoverer == nil {
		deps.Discoverer = colhttp.NewSitemap(nil, limiter)
	}
	deps.Renderer = markdown.NewRenderer()

	return kongCtx.Run(deps)
}

func newLogger(w io.Writer, level string, verbose bool) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	if verbose {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
