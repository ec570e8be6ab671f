package main

import (
	"log"

	"github.com/rwforest/chess-eval/app"
)

func main() {
	router, err := app.NewRouter()
	if err != nil {
		log.Fatalf("failed to initialize router: %v", err)
	}
	router.Run("0.0.0.0:8080")
}
