package main

import "github.com/oshokin/ticker-display/cmd/ticker-display/cmd"

func main() {
	cmd.Execute()
}
