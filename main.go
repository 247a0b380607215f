package main

import "github.com/notargets/planewaves/cmd"

func main() {
	cmd.Execute()
}
