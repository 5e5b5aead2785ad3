package main

import "github.com/midisuite/midifile/cmd"

func main() {
	cmd.Execute()
}
