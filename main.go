package main

import "github.com/relloyd/stagehand/cmd"

func main() {
	cmd.Execute()
}
