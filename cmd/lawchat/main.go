// Command lawchat is a terminal chat client for a legal question answering service.
package main

import "github.com/diogo/lawchat/internal/commands"

func main() {
	commands.Execute()
}
