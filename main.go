package main

import "trendletter/cmd/cmd"

func main() {
	cmd.Execute()
}
