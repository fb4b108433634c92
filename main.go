package main

import "github.com/sadopc/levelup/internal/cli"

func main() {
	cli.Execute()
}
