package main

import "github.com/sorcerai/packfs/cmd"

func main() {
	cmd.Execute()
}
