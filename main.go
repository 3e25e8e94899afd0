package main

import "github.com/skipfinder/skipfinder/cmd"

func main() {
	cmd.Execute()
}
