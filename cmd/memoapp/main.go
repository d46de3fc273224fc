package main

import (
	"log"

	"github.com/example/memoapp/internal/app"
)

func main() {
	theApp, err := app.New()
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}
	defer theApp.Close()

	if err := theApp.Run(); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
