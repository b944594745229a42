package main

import (
	"os"

	"github.com/cleared-dev/troskovi/internal/commands"
	"github.com/cleared-dev/troskovi/internal/ui"
)

func main() {
	cmd := commands.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		ui.New(cmd.ErrOrStderr()).Error(err.Error())
		os.Exit(1)
	}
}
