package main

import "evidence-cli/cmd"

func main() {
	cmd.Execute()
}
