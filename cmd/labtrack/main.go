package main

import "github.com/coBecT/MtsTrueTech/internal/cli"

func main() {
	cli.Execute()
}
