package main

import (
	"os"

	"github.com/alecthomas/kong"

	"github.com/mrlokans/compendium/internal/cli"
	"github.com/mrlokans/compendium/internal/config"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	cfg := config.NewConfig()

	var commands cli.Commands
	ctx := kong.Parse(&commands,
		kong.Name("compendium"),
		kong.Description("Study Bible Compendium - build and query a Bible study database"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		cli.Vars(cfg),
	)

	app := cli.NewApp(cfg, os.Stdout, Version, Commit)
	app.Apply(commands.Globals)

	err := ctx.Run(app)
	ctx.FatalIfErrorf(err)
}
