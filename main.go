package main

import "github.com/iksnae/chat-report/cmd"

func main() {
	cmd.Execute()
}
