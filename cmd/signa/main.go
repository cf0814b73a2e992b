package main

import (
	"os"

	"signa/cmd/signa/commands"
)

func main() {
	os.Exit(commands.Execute())
}
