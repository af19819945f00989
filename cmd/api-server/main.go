package main

import "blogapi/cmd/api-server/command"

func main() {
	command.Execute()
}
