package main

import "github.com/stephnangue/lcadmin/cmd"

func main() {
	cmd.Execute()
}
