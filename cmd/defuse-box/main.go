package main

import "github.com/oshokin/defuse-box/cmd/defuse-box/cmd"

func main() {
	cmd.Execute()
}
