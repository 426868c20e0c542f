package main

import (
	"log"

	"github.com/AlexandrosLiaskos/Web-Launcher/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ launcher failed to start: %v", err)
	}
}
