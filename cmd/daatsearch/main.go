package main

import "github.com/blockidx/daatsearch/cmd/daatsearch/cmd"

func main() {
	cmd.Execute()
}
