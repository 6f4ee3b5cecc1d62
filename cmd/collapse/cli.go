package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/collapse"
	"github.com/fwojciec/collapse/config"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx        context.Context
	Stdout     io.Writer
	Stderr     io.Writer
	Logger     *slog.Logger
	Config     *config.Config
	Source     collapse.Source
	Discoverer collapse.Discoverer
	Renderer   collapse.Renderer
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  string `short:"C" default:"collapse.yml" help:"Config file (missing file means defaults)"`
	Verbose bool   `short:"v" help:"Log debug output"`

	Prepare PrepareCmd `cmd:"" help:"Rewrite pages so their collapse blocks get disclosure controls"`
	Replay  ReplayCmd  `cmd:"" help:"Replay a scripted interaction session against a page"`
}

// PrepareCmd is the "prepare" subcommand.
type PrepareCmd struct {
	Inputs      []string `arg:"" optional:"" name:"input" help:"HTML or Markdown files, or http(s) URLs"`
	Sitemap     []string `short:"s" sep:"none" help:"Also prepare every page in the sitemaps of this site URL (repeatable)"`
	Filter      []string `short:"F" sep:"none" help:"Only prepare sitemap pages matching this regex (repeatable)"`
	Output      string   `short:"o" help:"Output directory (default: stdout)"`
	Hash        string   `help:"Location hash whose target starts expanded"`
	NoCollapse  bool     `name:"no-collapse" help:"Flatten collapse blocks instead of preparing them"`
	Format      string   `short:"f" enum:"html,markdown" default:"html" help:"Output format (html, markdown)"`
	Concurrency int      `short:"c" help:"Concurrent page limit (default from config)"`
	Fingerprint bool     `help:"Print a fingerprint of each rewritten page"`
}

// ReplayCmd is the "replay" subcommand.
type ReplayCmd struct {
	Input    string `arg:"" help:"HTML or Markdown file, or http(s) URL"`
	Script   string `arg:"" help:"YAML interaction script"`
	Realtime bool   `help:"Run timers on the wall clock instead of simulated time"`
}
