package main

import (
	"climbtrack/cmd/climbtrack/cmd"
)

func main() {
	cmd.Execute()
}
