package blog

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"ramsblog/analytics"
	"ramsblog/cache"
	"ramsblog/common"
	"ramsblog/models"
)

const (
	postsPerPage = 6
	sidebarLimit = 5
	postKey      = "blog_post"
)

type BlogModule struct {
	db          *gorm.DB
	analytics   *analytics.AnalyticsModule
	cacheMaxAge time.Duration
	now         func() time.Time
}

// NewBlogModule wires the public blog pages. A nil analytics module
// disables visit tracking; a zero cacheMaxAge disables the page cache.
func NewBlogModule(db *gorm.DB, analyticsModule *analytics.AnalyticsModule, cacheMaxAge time.Duration) *BlogModule {
	return &BlogModule{
		db:          db,
		analytics:   analyticsModule,
		cacheMaxAge: cacheMaxAge,
		now:         time.Now,
	}
}

func (b *BlogModule) RegisterRoutes(router *gin.Engine) {
	router.GET("/", b.index)
	router.GET("/category/:slug/", b.category)

	post := []gin.HandlerFunc{b.loadPost}
	if b.cacheMaxAge > 0 {
		post = append(post, cache.CacheMiddleware(b.cacheMaxAge))
	}
	router.GET("/post/:slug/", append(post, b.post)...)
}

func (b *BlogModule) published() *gorm.DB {
	return b.db.Model(&models.Blog{}).
		Preload("Category").
		Preload("Author").
		Preload("Language").
		Where("status = ?", models.StatusPublished)
}

func (b *BlogModule) startOfToday() time.Time {
	now := b.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func (b *BlogModule) renderError(c *gin.Context, status int, message string) {
	c.HTML(status, "error.html", gin.H{
		"error":      message,
		"categories": models.MenuCategories(b.db),
	})
}

func (b *BlogModule) index(c *gin.Context) {
	today := b.startOfToday()

	page, err := common.Paginate[models.Blog](
		b.published().Where("created_at < ?", today).Order("created_at DESC"),
		common.ParsePage(c.Query("page")), postsPerPage)
	if err != nil {
		log.Printf("Error loading posts: %v", err)
		b.renderError(c, http.StatusInternalServerError, "Error loading posts")
		return
	}

	var slides []models.Blog
	if err := b.published().Where("created_at >= ?", today).Order("created_at DESC").Find(&slides).Error; err != nil {
		log.Printf("Error loading slides: %v", err)
	}

	c.HTML(http.StatusOK, "blog_index.html", gin.H{
		"posts":      page,
		"slides":     slides,
		"categories": models.MenuCategories(b.db),
		"flashes":    common.Flashes(c),
	})
}

func (b *BlogModule) category(c *gin.Context) {
	var category models.Category
	if err := b.db.Where("slug = ?", c.Param("slug")).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			b.renderError(c, http.StatusNotFound, "Category not found")
			return
		}
		log.Printf("Error loading category: %v", err)
		b.renderError(c, http.StatusInternalServerError, "Error loading category")
		return
	}

	page, err := common.Paginate[models.Blog](
		b.published().Where("category_id = ?", category.ID).Order("created_at DESC"),
		common.ParsePage(c.Query("page")), postsPerPage)
	if err != nil {
		log.Printf("Error loading posts: %v", err)
		b.renderError(c, http.StatusInternalServerError, "Error loading posts")
		return
	}

	c.HTML(http.StatusOK, "blog_category.html", gin.H{
		"category":   category,
		"posts":      page,
		"categories": models.MenuCategories(b.db),
	})
}

// loadPost resolves the published post and counts the visit before the
// page cache gets a chance to answer.
func (b *BlogModule) loadPost(c *gin.Context) {
	var post models.Blog
	if err := b.published().Where("slug = ?", c.Param("slug")).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			b.renderError(c, http.StatusNotFound, "Post not found")
		} else {
			log.Printf("Error loading post: %v", err)
			b.renderError(c, http.StatusInternalServerError, "Error loading post")
		}
		c.Abort()
		return
	}

	b.analytics.TrackVisit(c, post.ID)
	c.Set(postKey, &post)
	c.Next()
}

func (b *BlogModule) post(c *gin.Context) {
	post := c.MustGet(postKey).(*models.Blog)

	var recent []models.Blog
	if err := b.published().Where("id <> ?", post.ID).
		Order("created_at DESC").
		Limit(sidebarLimit).
		Find(&recent).Error; err != nil {
		log.Printf("Error loading recent posts: %v", err)
	}

	var random []models.Blog
	if err := b.published().Where("id <> ?", post.ID).
		Order("RANDOM()").
		Limit(sidebarLimit).
		Find(&random).Error; err != nil {
		log.Printf("Error loading random posts: %v", err)
	}

	c.HTML(http.StatusOK, "blog_post.html", gin.H{
		"post":       post,
		"body":       common.RenderMarkdown(post.Body),
		"recent":     recent,
		"random":     random,
		"categories": models.MenuCategories(b.db),
	})
}
