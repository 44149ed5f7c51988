package main

import "github.com/tanq16/berdl/cmd"

func main() {
	cmd.Execute()
}
