package main

import (
	"github.com/buildtrace/artpack/cmd/artpack/cmd"
)

func main() {
	cmd.Execute()
}
