package admin

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"ramsblog/analytics"
	"ramsblog/cache"
	"ramsblog/models"
)

const (
	sessionUserKey = "admin_user_id"
	listPerPage    = 20
)

var passwordCost = 14

type AdminModule struct {
	db        *gorm.DB
	analytics *analytics.AnalyticsModule
	uploadDir string
}

func NewAdminModule(db *gorm.DB, analyticsModule *analytics.AnalyticsModule, uploadDir string) *AdminModule {
	if uploadDir == "" {
		uploadDir = "public/uploads"
	}
	return &AdminModule{
		db:        db,
		analytics: analyticsModule,
		uploadDir: uploadDir,
	}
}

func (a *AdminModule) RegisterRoutes(router *gin.Engine) {
	router.GET("/login", a.loginPage)
	router.POST("/login", a.loginPost)
	router.GET("/admin/logout", a.logout)

	adminGroup := router.Group("/admin")
	adminGroup.Use(a.requireAuth)
	{
		adminGroup.GET("", a.dashboard)
		adminGroup.POST("/cache/clear", a.clearCache)

		adminGroup.GET("/categories", a.listCategories)
		adminGroup.GET("/categories/new", a.categoryForm)
		adminGroup.GET("/categories/:id", a.categoryForm)
		adminGroup.POST("/categories", a.saveCategory)
		adminGroup.POST("/categories/:id", a.saveCategory)
		adminGroup.DELETE("/categories/:id", deleteRecord[models.Category](a))

		adminGroup.GET("/subcategories", a.listSubCategories)
		adminGroup.GET("/subcategories/new", a.subCategoryForm)
		adminGroup.GET("/subcategories/:id", a.subCategoryForm)
		adminGroup.POST("/subcategories", a.saveSubCategory)
		adminGroup.POST("/subcategories/:id", a.saveSubCategory)
		adminGroup.DELETE("/subcategories/:id", deleteRecord[models.SubCategory](a))

		adminGroup.GET("/purposes", a.listPurposes)
		adminGroup.GET("/purposes/new", a.purposeForm)
		adminGroup.GET("/purposes/:id", a.purposeForm)
		adminGroup.POST("/purposes", a.savePurpose)
		adminGroup.POST("/purposes/:id", a.savePurpose)
		adminGroup.DELETE("/purposes/:id", deleteRecord[models.Purpose](a))

		adminGroup.GET("/languages", a.listLanguages)
		adminGroup.GET("/languages/new", a.languageForm)
		adminGroup.GET("/languages/:id", a.languageForm)
		adminGroup.POST("/languages", a.saveLanguage)
		adminGroup.POST("/languages/:id", a.saveLanguage)
		adminGroup.DELETE("/languages/:id", deleteRecord[models.Language](a))

		adminGroup.GET("/blogs", a.listBlogs)
		adminGroup.GET("/blogs/new", a.blogForm)
		adminGroup.GET("/blogs/:id", a.blogForm)
		adminGroup.POST("/blogs", a.saveBlog)
		adminGroup.POST("/blogs/:id", a.saveBlog)
		adminGroup.DELETE("/blogs/:id", a.deleteBlog)

		adminGroup.GET("/questions", a.listQuestions)
		adminGroup.GET("/questions/new", a.questionForm)
		adminGroup.GET("/questions/:id", a.questionForm)
		adminGroup.POST("/questions", a.saveQuestion)
		adminGroup.POST("/questions/:id", a.saveQuestion)
		adminGroup.DELETE("/questions/:id", deleteRecord[models.Question](a))

		adminGroup.GET("/contacts", a.listContacts)
		adminGroup.POST("/contacts/:id/status", a.updateContactStatus)
		adminGroup.GET("/feedback", a.listFeedback)
	}
}

// requireAuth lets only logged-in staff users through.
func (a *AdminModule) requireAuth(c *gin.Context) {
	session := sessions.Default(c)
	userID := session.Get(sessionUserKey)

	if userID == nil {
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return
	}

	var user models.User
	if err := a.db.First(&user, userID).Error; err != nil || !user.IsStaff {
		session.Clear()
		session.Save()
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return
	}

	c.Set("admin_user", &user)
	c.Next()
}

func currentUser(c *gin.Context) *models.User {
	user, _ := c.Get("admin_user")
	u, _ := user.(*models.User)
	return u
}

func (a *AdminModule) loginPage(c *gin.Context) {
	session := sessions.Default(c)
	if session.Get(sessionUserKey) != nil {
		c.Redirect(http.StatusFound, "/admin")
		return
	}

	c.HTML(http.StatusOK, "admin_login.html", gin.H{})
}

func (a *AdminModule) loginPost(c *gin.Context) {
	login := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	var user models.User
	if err := a.db.Where("username = ? OR email = ?", login, login).First(&user).Error; err != nil {
		c.HTML(http.StatusUnauthorized, "admin_login.html", gin.H{
			"error":    "Incorrect username or password",
			"username": login,
		})
		return
	}

	if !checkPasswordHash(password, user.PasswordHash) {
		c.HTML(http.StatusUnauthorized, "admin_login.html", gin.H{
			"error":    "Incorrect username or password",
			"username": login,
		})
		return
	}

	if !user.IsStaff {
		c.HTML(http.StatusForbidden, "admin_login.html", gin.H{
			"error":    "This account cannot access the admin console",
			"username": login,
		})
		return
	}

	session := sessions.Default(c)
	session.Set(sessionUserKey, user.ID)
	if err := session.Save(); err != nil {
		log.Printf("Error saving admin session: %v", err)
	}

	c.Redirect(http.StatusFound, "/admin")
}

func (a *AdminModule) logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()

	c.Redirect(http.StatusFound, "/login")
}

type DayVisitChart struct {
	Date       string
	Count      int64
	Percentage float64
}

type PostVisitChart struct {
	BlogID     uint
	BlogTitle  string
	Count      int64
	Percentage float64
}

type entityCount struct {
	Label string
	URL   string
	Count int64
}

func (a *AdminModule) dashboard(c *gin.Context) {
	counts := []entityCount{
		{Label: "Blogs", URL: "/admin/blogs"},
		{Label: "Questions", URL: "/admin/questions"},
		{Label: "Categories", URL: "/admin/categories"},
		{Label: "Sub-categories", URL: "/admin/subcategories"},
		{Label: "Purposes", URL: "/admin/purposes"},
		{Label: "Contact requests", URL: "/admin/contacts"},
		{Label: "Feedback", URL: "/admin/feedback"},
	}
	for i, model := range []interface{}{
		&models.Blog{}, &models.Question{}, &models.Category{}, &models.SubCategory{},
		&models.Purpose{}, &models.ContactRequest{}, &models.Feedback{},
	} {
		if err := a.db.Model(model).Count(&counts[i].Count).Error; err != nil {
			log.Printf("Error counting %s: %v", counts[i].Label, err)
		}
	}

	var contacts []models.ContactRequest
	if err := a.db.Order("created_at DESC").Limit(5).Find(&contacts).Error; err != nil {
		log.Printf("Error loading contact requests: %v", err)
	}

	data := gin.H{
		"user":             currentUser(c),
		"counts":           counts,
		"contacts":         contacts,
		"analyticsEnabled": a.analytics != nil,
	}

	if a.analytics != nil {
		visitsByDay := a.analytics.VisitsByDay(15)
		topPosts := a.analytics.TopPosts(30, 10)

		maxVisitsPerDay := int64(1)
		for _, day := range visitsByDay {
			if day.Count > maxVisitsPerDay {
				maxVisitsPerDay = day.Count
			}
		}
		maxVisitsPerPost := int64(1)
		for _, post := range topPosts {
			if post.Count > maxVisitsPerPost {
				maxVisitsPerPost = post.Count
			}
		}

		dayCharts := make([]DayVisitChart, len(visitsByDay))
		for i, day := range visitsByDay {
			dayCharts[i] = DayVisitChart{
				Date:       day.Date,
				Count:      day.Count,
				Percentage: float64(day.Count) / float64(maxVisitsPerDay) * 100,
			}
		}
		postCharts := make([]PostVisitChart, len(topPosts))
		for i, post := range topPosts {
			postCharts[i] = PostVisitChart{
				BlogID:     post.BlogID,
				BlogTitle:  post.BlogTitle,
				Count:      post.Count,
				Percentage: float64(post.Count) / float64(maxVisitsPerPost) * 100,
			}
		}

		data["visitsByDay"] = dayCharts
		data["topPosts"] = postCharts
	}

	c.HTML(http.StatusOK, "admin_dashboard.html", data)
}

// clearCache drops every cached blog page.
func (a *AdminModule) clearCache(c *gin.Context) {
	if err := cache.ClearAll(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error clearing cache: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cache cleared"})
}

func (a *AdminModule) renderError(c *gin.Context, status int, message string) {
	c.HTML(status, "admin_error.html", gin.H{
		"error": message,
		"user":  currentUser(c),
	})
}

// loadRecord fills dest from the :id route param. Without an :id it leaves
// dest untouched. On failure it renders the error page and returns false.
func (a *AdminModule) loadRecord(c *gin.Context, dest interface{}) bool {
	raw := c.Param("id")
	if raw == "" {
		return true
	}

	id, err := strconv.Atoi(raw)
	if err != nil {
		a.renderError(c, http.StatusBadRequest, "Invalid ID")
		return false
	}

	if err := a.db.First(dest, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			a.renderError(c, http.StatusNotFound, "Record not found")
		} else {
			log.Printf("Error loading record %d: %v", id, err)
			a.renderError(c, http.StatusInternalServerError, "Error loading record")
		}
		return false
	}
	return true
}

// deleteRecord deletes the T identified by :id and replies with JSON.
func deleteRecord[T any](a *AdminModule) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
			return
		}

		var model T
		result := a.db.Delete(&model, id)
		if result.Error != nil {
			log.Printf("Error deleting record %d: %v", id, result.Error)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting record"})
			return
		}

		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Deleted successfully"})
	}
}

// parseOptionalID reads a foreign key form value; empty or invalid means none.
func parseOptionalID(raw string) *uint {
	n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || n == 0 {
		return nil
	}
	id := uint(n)
	return &id
}

// HashPassword hashes a staff password with bcrypt.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	return string(bytes), err
}

func checkPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
