package models

import (
	"log"

	"gorm.io/gorm"
)

// MenuCategories lists categories for the site navigation menu. Errors are
// logged and yield an empty menu.
func MenuCategories(db *gorm.DB) []Category {
	var categories []Category
	if err := db.Order("name").Find(&categories).Error; err != nil {
		log.Printf("Error loading menu categories: %v", err)
		return []Category{}
	}
	return categories
}
