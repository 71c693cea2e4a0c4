package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"codeberg.org/promptdesk/server/internal/auth"
	"codeberg.org/promptdesk/server/internal/users"
)

func main() {
	// load environment
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	dbConnString := os.Getenv("DATABASE_URL")
	if dbConnString == "" {
		log.Fatal("DATABASE_URL not set")
	}

	dbPool, err := pgxpool.New(context.Background(), dbConnString)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbPool.Close()

	ctx := context.Background()
	userRepo := users.NewRepository(dbPool)

	// create or find test user
	user, err := userRepo.FindOrCreateByProvider(ctx, "test", "test-user-123", "test@promptdesk.dev", "Test User", "")
	if err != nil {
		log.Fatalf("Failed to create test user: %v", err)
	}

	fmt.Printf("✅ Test user: %s (ID: %s)\n", user.Email, user.ID)

	// generate JWT token
	token, err := auth.GenerateJWT(user.ID, user.Email)
	if err != nil {
		log.Fatalf("Failed to generate JWT: %v", err)
	}

	fmt.Printf("\n🔑 Test JWT Token:\n%s\n\n", token)
	fmt.Printf("Export this token for testing:\nexport PROMPTDESK_TOKEN=\"%s\"\n", token)
}
