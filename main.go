package main

import "github.com/agentic-research/rcfs/cmd"

func main() {
	cmd.Execute()
}
