package main

import "github.com/rustyeddy/txengine/internal/cli"

func main() {
	cli.Execute()
}
