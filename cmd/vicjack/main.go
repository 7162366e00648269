package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" default:"1" help:"Sit down at Vic's table"`
	Simulate SimulateCmd      `cmd:"" help:"Play rounds with basic strategy and report the results"`
	Avatar   AvatarCmd        `cmd:"" help:"Generate a portrait of Vic"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("vicjack"),
		kong.Description("Single-seat blackjack with an AI dealer"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
