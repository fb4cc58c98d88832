package main

import "github.com/mdrcp/mdrcp/cmd/mdrcp/cmd"

func main() {
	cmd.Execute()
}
