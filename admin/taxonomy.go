package admin

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ramsblog/models"
)

func (a *AdminModule) listCategories(c *gin.Context) {
	var categories []models.Category
	if err := a.db.Preload("SubCategories").Order("name").Find(&categories).Error; err != nil {
		log.Printf("Error loading categories: %v", err)
		a.renderError(c, http.StatusInternalServerError, "Error loading categories")
		return
	}

	c.HTML(http.StatusOK, "admin_categories.html", gin.H{
		"user":       currentUser(c),
		"categories": categories,
	})
}

func (a *AdminModule) categoryForm(c *gin.Context) {
	var category models.Category
	if !a.loadRecord(c, &category) {
		return
	}

	c.HTML(http.StatusOK, "admin_category_form.html", gin.H{
		"user":     currentUser(c),
		"category": category,
	})
}

func (a *AdminModule) saveCategory(c *gin.Context) {
	var category models.Category
	if !a.loadRecord(c, &category) {
		return
	}

	category.Name = strings.TrimSpace(c.PostForm("name"))
	category.Slug = strings.TrimSpace(c.PostForm("slug"))

	if err := a.db.Save(&category).Error; err != nil {
		c.HTML(http.StatusBadRequest, "admin_category_form.html", gin.H{
			"user":     currentUser(c),
			"category": category,
			"error":    "Error saving category: " + err.Error(),
		})
		return
	}

	c.Redirect(http.StatusFound, "/admin/categories")
}

func (a *AdminModule) listSubCategories(c *gin.Context) {
	var subCategories []models.SubCategory
	if err := a.db.Preload("Category").Order("name").Find(&subCategories).Error; err != nil {
		log.Printf("Error loading sub-categories: %v", err)
		a.renderError(c, http.StatusInternalServerError, "Error loading sub-categories")
		return
	}

	c.HTML(http.StatusOK, "admin_subcategories.html", gin.H{
		"user":          currentUser(c),
		"subCategories": subCategories,
	})
}

func (a *AdminModule) subCategoryForm(c *gin.Context) {
	var subCategory models.SubCategory
	if !a.loadRecord(c, &subCategory) {
		return
	}

	c.HTML(http.StatusOK, "admin_subcategory_form.html", gin.H{
		"user":        currentUser(c),
		"subCategory": subCategory,
		"categories":  models.MenuCategories(a.db),
	})
}

func (a *AdminModule) saveSubCategory(c *gin.Context) {
	var subCategory models.SubCategory
	if !a.loadRecord(c, &subCategory) {
		return
	}

	subCategory.Name = strings.TrimSpace(c.PostForm("name"))
	subCategory.Slug = strings.TrimSpace(c.PostForm("slug"))
	subCategory.CategoryID = parseOptionalID(c.PostForm("category_id"))

	if err := a.db.Save(&subCategory).Error; err != nil {
		c.HTML(http.StatusBadRequest, "admin_subcategory_form.html", gin.H{
			"user":        currentUser(c),
			"subCategory": subCategory,
			"categories":  models.MenuCategories(a.db),
			"error":       "Error saving sub-category: " + err.Error(),
		})
		return
	}

	c.Redirect(http.StatusFound, "/admin/subcategories")
}

func (a *AdminModule) listPurposes(c *gin.Context) {
	var purposes []models.Purpose
	if err := a.db.Order("title").Find(&purposes).Error; err != nil {
		log.Printf("Error loading purposes: %v", err)
		a.renderError(c, http.StatusInternalServerError, "Error loading purposes")
		return
	}

	c.HTML(http.StatusOK, "admin_purposes.html", gin.H{
		"user":     currentUser(c),
		"purposes": purposes,
	})
}

func (a *AdminModule) purposeForm(c *gin.Context) {
	var purpose models.Purpose
	if !a.loadRecord(c, &purpose) {
		return
	}

	c.HTML(http.StatusOK, "admin_purpose_form.html", gin.H{
		"user":    currentUser(c),
		"purpose": purpose,
	})
}

func (a *AdminModule) savePurpose(c *gin.Context) {
	var purpose models.Purpose
	if !a.loadRecord(c, &purpose) {
		return
	}

	purpose.Title = strings.TrimSpace(c.PostForm("title"))
	purpose.Description = c.PostForm("description")
	purpose.Slug = strings.TrimSpace(c.PostForm("slug"))

	if err := a.db.Save(&purpose).Error; err != nil {
		c.HTML(http.StatusBadRequest, "admin_purpose_form.html", gin.H{
			"user":    currentUser(c),
			"purpose": purpose,
			"error":   "Error saving purpose: " + err.Error(),
		})
		return
	}

	c.Redirect(http.StatusFound, "/admin/purposes")
}

func (a *AdminModule) listLanguages(c *gin.Context) {
	var languages []models.Language
	if err := a.db.Order("name").Find(&languages).Error; err != nil {
		log.Printf("Error loading languages: %v", err)
		a.renderError(c, http.StatusInternalServerError, "Error loading languages")
		return
	}

	c.HTML(http.StatusOK, "admin_languages.html", gin.H{
		"user":      currentUser(c),
		"languages": languages,
	})
}

func (a *AdminModule) languageForm(c *gin.Context) {
	var language models.Language
	if !a.loadRecord(c, &language) {
		return
	}

	c.HTML(http.StatusOK, "admin_language_form.html", gin.H{
		"user":     currentUser(c),
		"language": language,
		"choices":  models.Languages,
	})
}

func (a *AdminModule) saveLanguage(c *gin.Context) {
	var language models.Language
	if !a.loadRecord(c, &language) {
		return
	}

	language.Name = strings.TrimSpace(c.PostForm("name"))

	if err := a.db.Save(&language).Error; err != nil {
		c.HTML(http.StatusBadRequest, "admin_language_form.html", gin.H{
			"user":     currentUser(c),
			"language": language,
			"choices":  models.Languages,
			"error":    "Error saving language: " + err.Error(),
		})
		return
	}

	c.Redirect(http.StatusFound, "/admin/languages")
}
