// This file runs the database migrations and the lifecycle-column repair as
// a one-shot command.
//
// How to run:
//
//	go run cmd/migrate/main.go
package main

import (
	"log"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/vmplane/vmplane/config"
	"github.com/vmplane/vmplane/internal/db"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	port, err := strconv.Atoi(config.GetEnv("DB_PORT", "5432"))
	if err != nil {
		log.Fatalf("Invalid DB_PORT: %v", err)
	}

	// db.New runs AutoMigrate and the column repair on connect
	database, err := db.New(db.Options{
		Host:     config.GetEnv("DB_HOST", ""),
		User:     config.GetEnv("DB_USER", ""),
		Password: config.GetEnv("DB_PASSWORD", ""),
		DBName:   config.GetEnv("DB_NAME", ""),
		Port:     port,
	})
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	if err := db.EnsureLifecycleColumns(database); err != nil {
		log.Fatalf("Lifecycle column repair failed: %v", err)
	}

	log.Println("Migrations complete")
}
