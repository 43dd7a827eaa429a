package main

import "github.com/docstruct/tably/cmd/tably/cmd"

func main() {
	cmd.Execute()
}
