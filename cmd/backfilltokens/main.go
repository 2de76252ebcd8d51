package main

import (
	"log"

	authRepo "classlink-backend/internal/auth/repository"
	"classlink-backend/pkg/config"
	"classlink-backend/pkg/database"
)

// One-off backfill: normalizes the device-token field of every parent account
// that never registered one. Accounts created before token registration
// existed have NULL in the column; writing the empty placeholder makes
// equality queries on device_token behave uniformly. A blank token is never a
// dispatch target.
const placeholderToken = ""

func main() {
	cfg := config.Load()

	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	userRepo := authRepo.NewUserRepository(db)
	parents, err := userRepo.FindParentsWithoutToken()
	if err != nil {
		log.Fatal("Failed to list parents:", err)
	}

	updated := 0
	for _, parent := range parents {
		if err := userRepo.UpdateDeviceToken(parent.ID, placeholderToken); err != nil {
			log.Printf("Failed to backfill token for %s: %v", parent.ID, err)
			continue
		}
		updated++
	}

	log.Printf("Backfilled %d of %d parent accounts", updated, len(parents))
}
