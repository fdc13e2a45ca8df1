package main

import "github.com/maxvaer/linkguard/cmd"

func main() {
	cmd.Execute()
}
