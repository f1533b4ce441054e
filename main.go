package main

import "github.com/gnames/gnvern/cmd"

func main() {
	cmd.Execute()
}
