package main

import "github.com/dashloom/dashloom-cli/cmd"

func main() {
	cmd.Execute()
}
