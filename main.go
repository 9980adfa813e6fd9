package main

import "github.com/dataclaw/dataclaw/cmd"

func main() {
	cmd.Execute()
}
