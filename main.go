package main

import (
	"os"

	"fusion/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
