package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"bookstore/internal/app"
	"bookstore/internal/config"

	"github.com/spf13/viper"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// --- Initialize Application ---
	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := application.Fiber.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := application.Fiber.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	if err := application.Close(); err != nil {
		log.Printf("Error releasing resources: %v", err)
	}

	log.Println("Server gracefully stopped")
}
