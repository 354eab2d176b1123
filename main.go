package main

import "github.com/aokabi/github-trending/cmd"

func main() {
	cmd.Execute()
}
