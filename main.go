package main

import "github.com/medward/refdash-cli/cmd"

func main() {
	cmd.Execute()
}
