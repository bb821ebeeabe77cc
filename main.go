package main

import (
	"log"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"ramsblog/admin"
	"ramsblog/analytics"
	"ramsblog/blog"
	"ramsblog/cache"
	"ramsblog/common"
	"ramsblog/database"
	"ramsblog/email"
	"ramsblog/models"
	"ramsblog/quiz"
	"ramsblog/site"
)

func main() {
	cfg := common.LoadConfig()

	db := common.ConnectDb(cfg.SqliteDB)
	if db == nil {
		log.Fatal("Failed to connect to database")
	}

	if err := database.RunMigrations(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	if cfg.SessionSecret == "" {
		log.Fatal("SESSION_SECRET environment variable not set")
	}

	router := gin.Default()

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   false,
	})

	router.Use(sessions.Sessions("ramsblog-session", store))

	router.SetFuncMap(map[string]interface{}{
		"now": func() time.Time {
			return time.Now()
		},
		"domain": func() string {
			return cfg.Domain
		},
		"deref": func(id *uint) uint {
			if id == nil {
				return 0
			}
			return *id
		},
	})

	router.LoadHTMLGlob("*/views/*.html")

	router.Static("/public", "./public")

	analyticsModule := analytics.NewAnalyticsModule(db)

	adminModule := admin.NewAdminModule(db, analyticsModule, cfg.UploadDir)
	adminModule.RegisterRoutes(router)

	blogModule := blog.NewBlogModule(db, analyticsModule, cfg.CacheMaxAge)
	blogModule.RegisterRoutes(router)

	quizModule := quiz.NewQuizModule(db)
	quizModule.RegisterRoutes(router)

	siteModule := site.NewSiteModule(db, email.NewEmailService(cfg), cfg.Domain)
	siteModule.RegisterRoutes(router)

	router.NoRoute(func(c *gin.Context) {
		c.HTML(404, "error.html", gin.H{
			"error":      "Page not found",
			"categories": models.MenuCategories(db),
		})
	})

	if cfg.CacheMaxAge > 0 {
		go func() {
			for range time.Tick(cfg.CacheMaxAge) {
				if err := cache.ClearOldCache(cfg.CacheMaxAge); err != nil {
					log.Printf("Error clearing old cache: %v", err)
				}
			}
		}()
	}

	log.Printf("Starting server on port %s...", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
