package main

import "github.com/theirongolddev/goalfund/cmd"

func main() {
	cmd.Execute()
}
