package main

import "github.com/devicelab-dev/webelement/pkg/cli"

func main() {
	cli.Execute()
}
