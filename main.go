package main

import "rental-manager/cmd"

func main() {
	cmd.Execute()
}
