package main

import "github.com/pacswatch/pacswatch/pacs/internal/cli"

func main() {
	cli.Execute()
}
