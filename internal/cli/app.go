// Package cli implements the compendium commands. Each command is a kong
// command struct whose Run method receives the shared *App.
package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/mrlokans/compendium/internal/canon"
	"github.com/mrlokans/compendium/internal/config"
	"github.com/mrlokans/compendium/internal/database"
	"github.com/mrlokans/compendium/internal/logging"
)

// ErrNoResults makes lookup commands exit non-zero when nothing matched.
var ErrNoResults = errors.New("no results")

// Globals are the flags accepted by every command. Empty values keep the
// configured defaults.
type Globals struct {
	DB        string `name:"db" help:"Path to the SQLite database" type:"path"`
	Canon     string `name:"canon" help:"Path to a canon JSON file (default: built-in 66-book canon)" type:"path"`
	LogLevel  string `name:"log-level" help:"Log level: debug, info, warn, error"`
	LogFormat string `name:"log-format" help:"Log format: text or json"`
}

// Vars exposes configured defaults to flag tags as ${name}.
func Vars(cfg *config.Config) kong.Vars {
	return kong.Vars{
		"context_before": strconv.Itoa(cfg.Query.ContextBefore),
		"context_after":  strconv.Itoa(cfg.Query.ContextAfter),
	}
}

// App carries the resolved configuration and the output stream.
type App struct {
	Config  *config.Config
	Out     io.Writer
	Version string
	Commit  string

	resolver *canon.Resolver
}

func NewApp(cfg *config.Config, out io.Writer, version, commit string) *App {
	return &App{Config: cfg, Out: out, Version: version, Commit: commit}
}

// Apply overrides the configuration with global flags and initialises
// logging.
func (a *App) Apply(g Globals) {
	if g.DB != "" {
		a.Config.Database.Path = g.DB
	}
	if g.Canon != "" {
		a.Config.Canon.Path = g.Canon
	}
	if g.LogLevel != "" {
		a.Config.Logging.Level = g.LogLevel
	}
	if g.LogFormat != "" {
		a.Config.Logging.Format = g.LogFormat
	}
	logging.Init(logging.ParseLevel(a.Config.Logging.Level), logging.ParseFormat(a.Config.Logging.Format))
}

// Resolver loads the canon once per process. A canon that cannot be read
// yields an empty resolver so that lookups return nothing.
func (a *App) Resolver() *canon.Resolver {
	if a.resolver == nil {
		a.resolver = canon.NewResolver(canon.LoadOrEmpty(a.Config.Canon.Path))
	}
	return a.resolver
}

func (a *App) openWrite() (*database.Database, error) {
	db, err := database.Open(a.Config.Database.Path, database.Options{SQLDebug: a.Config.Database.SQLDebug})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func (a *App) openRead() (*database.Database, error) {
	db, err := database.Open(a.Config.Database.Path, database.Options{ReadOnly: true, SQLDebug: a.Config.Database.SQLDebug})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.Out, format, args...)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.Out, args...)
}

func (a *App) translationOrDefault(code string) string {
	if strings.TrimSpace(code) == "" {
		return a.Config.Query.DefaultTranslation
	}
	return strings.ToUpper(strings.TrimSpace(code))
}
