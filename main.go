package main

import "clans-optimizer/cmd/root"

func main() {
	root.Execute()
}
