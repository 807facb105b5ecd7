package main

import (
	"os"

	"networth/internal/cli"
	"networth/internal/commands"
)

func main() {
	cli.LoadEnvFile()
	os.Exit(commands.Execute())
}
