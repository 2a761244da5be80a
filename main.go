package main

import "github.com/encodeous/coretopo/cmd"

func main() {
	cmd.Execute()
}
