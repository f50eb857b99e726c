package main

import (
	"elevator-dispatch-service/internal/adapters/repositories"
	"elevator-dispatch-service/internal/config"
	"elevator-dispatch-service/internal/platform/db"
	"log"

	"github.com/joho/godotenv"
)

// dbtool initialises the ride journal schema on Postgres.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := config.Get("DATABASE_URL", "")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	conn, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	log.Println("Initializing journal schema...")
	if err := repositories.InitSchema(conn, repositories.Postgres); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")
}
