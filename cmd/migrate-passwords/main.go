// Migration script to hash existing passwords
// cmd/migrate-passwords/main.go
package main

import (
	"log"
	"strings"
	"time"

	"research-repository-api/config"
	"research-repository-api/models"
	"research-repository-api/utils"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize database
	config.InitDB()

	// Get all users
	var users []models.User
	if err := config.DB.Where("delete_at IS NULL").Find(&users).Error; err != nil {
		log.Fatal("Failed to fetch users:", err)
	}

	updated := 0
	for _, user := range users {
		// Skip if already hashed (bcrypt hashes start with $2)
		if strings.HasPrefix(user.Password, "$2") {
			continue
		}

		if ok, reason := utils.ValidatePassword(user.Password); !ok {
			log.Printf("Warning: user %s has a weak password: %s\n", user.Email, reason)
		}

		hashedPassword, err := utils.HashPassword(user.Password)
		if err != nil {
			log.Printf("Failed to hash password for user %s: %v\n", user.Email, err)
			continue
		}

		if err := config.DB.Model(&models.User{}).
			Where("user_id = ?", user.UserID).
			Updates(map[string]interface{}{
				"email":     utils.NormalizeEmail(user.Email),
				"password":  hashedPassword,
				"update_at": time.Now(),
			}).Error; err != nil {
			log.Printf("Failed to update password for user %s: %v\n", user.Email, err)
			continue
		}

		updated++
		log.Printf("Hashed password for user %s\n", user.Email)
	}

	log.Printf("Password migration completed! %d of %d users updated\n", updated, len(users))
}
