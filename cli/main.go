package main

import "github.com/TJLW/airbitz-core/cli/cmd"

func main() {
	cmd.Execute()
}
