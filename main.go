package main

import "appicon/cmd"

func main() {
	cmd.Execute()
}
