package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"gorm.io/gorm"

	"ramsblog/admin"
	"ramsblog/common"
	"ramsblog/database"
	"ramsblog/models"
)

func main() {
	username := flag.String("username", "", "staff username")
	email := flag.String("email", "", "staff email")
	password := flag.String("password", "", "staff password")
	firstName := flag.String("first-name", "", "first name")
	lastName := flag.String("last-name", "", "last name")
	flag.Parse()

	if *username == "" || *email == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := common.LoadConfig()
	db := common.ConnectDb(cfg.SqliteDB)
	if db == nil {
		fmt.Println("Failed to connect to database")
		os.Exit(1)
	}

	if err := database.RunMigrations(db); err != nil {
		fmt.Printf("Error running migrations: %v\n", err)
		os.Exit(1)
	}

	user, created, err := createStaffUser(db, *username, *email, *password, *firstName, *lastName)
	if err != nil {
		fmt.Printf("Error creating user: %v\n", err)
		os.Exit(1)
	}

	if created {
		fmt.Printf("Staff user created successfully: %s (%s)\n", user.Username, user.Email)
	} else {
		fmt.Printf("Existing user promoted to staff: %s (%s)\n", user.Username, user.Email)
	}
}

// createStaffUser creates a staff user, or promotes and resets the
// password of the user that already has username.
func createStaffUser(db *gorm.DB, username, email, password, firstName, lastName string) (*models.User, bool, error) {
	hash, err := admin.HashPassword(password)
	if err != nil {
		return nil, false, fmt.Errorf("hashing password: %w", err)
	}

	var user models.User
	err = db.Where("username = ?", username).First(&user).Error
	created := errors.Is(err, gorm.ErrRecordNotFound)
	if err != nil && !created {
		return nil, false, fmt.Errorf("looking up %s: %w", username, err)
	}

	user.Username = username
	user.Email = email
	user.PasswordHash = hash
	user.IsStaff = true
	if firstName != "" {
		user.FirstName = firstName
	}
	if lastName != "" {
		user.LastName = lastName
	}

	if err := models.Validate(&user); err != nil {
		return nil, false, err
	}
	if err := db.Save(&user).Error; err != nil {
		return nil, false, fmt.Errorf("saving %s: %w", username, err)
	}
	return &user, created, nil
}
