package main

import "crypto-buy-alerts/internal/cli"

func main() {
	cli.Execute()
}
