package main

import "bookshare-backend/cmd/bookctl/commands"

func main() {
	commands.Execute()
}
