package main

import (
	"os"

	"github.com/rjegjin/Specific-Skills-and-Accomplishments/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
