package main

import "github.com/chriserin/testgen/cmd"

func main() {
	cmd.Execute()
}
