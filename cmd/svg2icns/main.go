package main

import (
	"github.com/coder/svg2icns/cli"
)

func main() {
	var rootCmd cli.RootCmd
	rootCmd.RunMain()
}
