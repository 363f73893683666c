package main

import (
	"log"

	"github.com/mpetrenko/shortly/internal/app"
	"github.com/mpetrenko/shortly/internal/logger"
)

func main() {
	application, err := app.New()
	if err != nil {
		log.Fatalf("Unable to initialize the application: %v", err)
	}
	defer application.Close()

	if err := application.Run(); err != nil {
		logger.Log.Fatalw("application stopped", "err", err)
	}
}
