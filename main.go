package main

import "github.com/kozaktomas/idphoto/cmd"

func main() {
	cmd.Execute()
}
