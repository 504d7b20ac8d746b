package main

import "github.com/vibast-solutions/ms-go-p2p-payments/cmd"

func main() {
	cmd.Execute()
}
