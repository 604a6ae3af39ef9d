// Package main provides the semlayer CLI.
package main

import (
	"github.com/leapstack-labs/semlayer/internal/cli"
)

func main() {
	cli.Execute()
}
