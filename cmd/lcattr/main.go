package main

import (
	"github.com/lifecompass/attribution/internal/cli"
)

func main() {
	cli.Execute()
}
