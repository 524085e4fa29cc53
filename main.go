package main

import (
	"log"

	"ticket-ledger/cmd"
)

func main() {
	if err := cmd.Start(); err != nil {
		log.Fatal(err)
	}
}
