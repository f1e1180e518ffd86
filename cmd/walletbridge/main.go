package main

import "github.com/vietddude/walletbridge/internal/cli"

func main() {
	cli.Execute()
}
