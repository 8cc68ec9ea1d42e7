package main

import "github.com/tornadohq/posreport/cmd"

func main() {
	cmd.Execute()
}
