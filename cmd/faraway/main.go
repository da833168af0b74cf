package main

import (
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/lox/faraway/internal/config"
)

// version is set by ldflags during build
var version = "dev"

var titleStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#7D56F4")).
	Padding(0, 1).
	Bold(true)

// Globals are flags shared by every command
type Globals struct {
	Config  string `short:"c" default:"faraway.hcl" type:"path" help:"HCL configuration file (missing file uses defaults)"`
	NoColor bool   `help:"Disable colour output"`
}

// loadConfig reads and validates the configuration file
func (g *Globals) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", g.Config, err)
	}
	return cfg, nil
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" help:"Play a game against bots in the terminal"`
	Simulate SimulateCmd      `cmd:"" help:"Run bot-only games and report statistics"`
	Catalog  CatalogCmd       `cmd:"" help:"List the card catalog"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("faraway"),
		kong.Description("Card drafting game engine with terminal play and bot simulations"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	if cli.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
