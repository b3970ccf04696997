// Schema migration for the research repository tables
// cmd/migrate/main.go
package main

import (
	"log"

	"research-repository-api/config"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize database
	config.InitDB()

	if err := config.AutoMigrate(config.DB); err != nil {
		log.Fatal("Schema migration failed:", err)
	}

	log.Println("Schema migration completed!")
}
