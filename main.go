package main

import "github.com/user/reactvid-cli/cmd"

func main() {
	cmd.Execute()
}
