package main

import "github.com/dilasgoi/eessi-monitor/cmd"

func main() {
	cmd.Execute()
}
