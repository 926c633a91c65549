package main

import "github.com/roach88/inferc/internal/cli"

func main() {
	cli.Execute()
}
