package main

import "github.com/OpenTraceLab/OpenTraceFX/cmd/otfx/cmd"

func main() {
	cmd.Execute()
}
