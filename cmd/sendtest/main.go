package main

import (
	"context"
	"log"
	"os"

	authRepo "classlink-backend/internal/auth/repository"
	"classlink-backend/pkg/config"
	"classlink-backend/pkg/database"
	"classlink-backend/pkg/fcm"
)

// Sends a single test push to the recipient named on the command line.
// Usage: sendtest <user-id>
func main() {
	if len(os.Args) < 2 {
		log.Println("usage: sendtest <user-id>")
		os.Exit(1)
	}
	userID := os.Args[1]

	cfg := config.Load()

	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	userRepo := authRepo.NewUserRepository(db)
	user, err := userRepo.FindByID(userID)
	if err != nil {
		log.Fatal("Failed to look up user:", err)
	}
	if user == nil {
		log.Printf("User %s not found", userID)
		os.Exit(1)
	}
	if user.DeviceToken == "" {
		log.Printf("User %s has no device token", userID)
		os.Exit(1)
	}

	client, err := fcm.NewClient(cfg.FirebaseCredentials)
	if err != nil {
		log.Fatal("Failed to initialize FCM client:", err)
	}

	err = client.SendToDevice(context.Background(), user.DeviceToken, fcm.NotificationData{
		Title: "Test notification",
		Body:  "If you can read this, push delivery works.",
		Data:  map[string]string{"type": "test"},
	})
	if err != nil {
		log.Fatal("Failed to send test push:", err)
	}

	log.Printf("Test push sent to %s (%s)", user.Name, userID)
}
