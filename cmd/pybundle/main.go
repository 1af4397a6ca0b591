package main

import (
	"github.com/alecthomas/kong"

	"github.com/MarcoChavezB/pybundle/cmd/pybundle/commands"
	"github.com/MarcoChavezB/pybundle/internal/version"
)

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("pybundle"),
		kong.Description("Freeze a Python project into a standalone executable and package it as a distributable archive."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)
	err := ctx.Run(&commands.Global{})
	ctx.FatalIfErrorf(err)
}
