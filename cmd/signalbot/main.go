package main

import "github.com/mcoot/signalbot/internal/cli"

func main() {
	cli.Execute()
}
