package main

import "github.com/Digital-Shane/show-onboard/internal/cmd"

func main() {
	cmd.Execute()
}
