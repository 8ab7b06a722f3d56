package main

import "tagwise/cmd"

func main() {
	cmd.Execute()
}
