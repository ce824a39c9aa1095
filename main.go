package main

import "github.com/mpapenbr/racegap-go/cmd"

func main() {
	cmd.Execute()
}
