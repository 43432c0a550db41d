package main

import "timerecon/internal/app/server"

func main() {
	server.Run()
}
