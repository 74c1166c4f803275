package main

import "gmockgen/internal/cli"

func main() {
	cli.Execute()
}
