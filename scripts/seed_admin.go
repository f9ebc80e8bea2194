package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/shahadathhs/barisathi-sub000/models"
	"github.com/shahadathhs/barisathi-sub000/storage"
)

// Creates (or promotes) the initial admin account from ADMIN_EMAIL and
// ADMIN_PASSWORD. Run once after the first deploy:
//
//	go run ./scripts
func main() {
	godotenv.Load()
	storage.InitializeDB()

	email := strings.ToLower(os.Getenv("ADMIN_EMAIL"))
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}

	var user models.User
	result := storage.DB.Where("email = ?", email).Limit(1).Find(&user)
	if result.Error != nil {
		log.Fatalf("Error looking up admin user: %v", result.Error)
	}

	if result.RowsAffected > 0 {
		if user.Role == models.RoleAdmin {
			fmt.Println("Admin account already exists.")
			return
		}
		user.Role = models.RoleAdmin
		if err := storage.DB.Save(&user).Error; err != nil {
			log.Fatalf("Error promoting user to admin: %v", err)
		}
		fmt.Printf("Promoted %s to admin.\n", email)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Error hashing password: %v", err)
	}

	user = models.User{
		Name:     "Administrator",
		Email:    email,
		Password: string(hashed),
		Role:     models.RoleAdmin,
	}
	if err := storage.DB.Create(&user).Error; err != nil {
		log.Fatalf("Error creating admin user: %v", err)
	}

	fmt.Println("Admin account created successfully!")
}
