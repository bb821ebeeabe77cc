package database

import (
	"log"

	"gorm.io/gorm"

	"ramsblog/analytics"
	"ramsblog/models"
)

func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.SubCategory{},
		&models.Language{},
		&models.Purpose{},
		&models.Blog{},
		&models.Question{},
		&models.ContactRequest{},
		&models.Feedback{},
		&analytics.BlogVisit{},
	)

	if err != nil {
		log.Printf("Error running migrations: %v", err)
		return err
	}

	if err := SeedLanguages(db); err != nil {
		log.Printf("Error seeding languages: %v", err)
		return err
	}

	log.Println("Migrations completed successfully")
	return nil
}

// SeedLanguages makes sure every supported language has a row.
func SeedLanguages(db *gorm.DB) error {
	for _, name := range models.Languages {
		var lang models.Language
		if err := db.Where(models.Language{Name: name}).FirstOrCreate(&lang).Error; err != nil {
			return err
		}
	}
	return nil
}
