package main

import "mailtab/internal/cli"

func main() {
	cli.Execute()
}
