package main

import (
	"log"

	"github.com/minddumper/minddumper/app"
)

func main() {
	a, err := app.New()
	if err != nil {
		log.Fatalf("Failed to initialise application: %v", err)
	}

	a.Run()
}
