package main

import "libraryhub/cmd/overdue-scan/command"

func main() {
	command.Execute()
}
