package site

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"ramsblog/common"
	"ramsblog/models"
)

const (
	searchPerPage = 6

	modelBlog     = "blog"
	modelQuestion = "question"
)

// ContactNotifier is told about every stored contact request.
type ContactNotifier interface {
	NotifyContactRequest(req *models.ContactRequest) error
}

type SiteModule struct {
	db       *gorm.DB
	notifier ContactNotifier
	domain   string
}

// NewSiteModule builds the public site pages. notifier may be nil.
func NewSiteModule(db *gorm.DB, notifier ContactNotifier, domain string) *SiteModule {
	return &SiteModule{
		db:       db,
		notifier: notifier,
		domain:   strings.TrimSuffix(domain, "/"),
	}
}

func (s *SiteModule) RegisterRoutes(router *gin.Engine) {
	router.GET("/search-result", s.searchForm)
	router.POST("/search-result", s.search)
	router.GET("/contact/", s.contactForm)
	router.POST("/contact/", s.contact)
	router.GET("/feedback/", s.feedbackForm)
	router.POST("/feedback/", s.feedback)

	router.GET("/about/", s.static("about.html", "About us"))
	router.GET("/declaration/", s.static("declaration.html", "Declaration"))
	router.GET("/privacy-policy/", s.static("privacy_policy.html", "Privacy policy"))
	router.GET("/author-detail/", s.authors)
	router.GET("/sitemap.xml", s.sitemap)
}

func (s *SiteModule) page(c *gin.Context, data gin.H) gin.H {
	data["categories"] = models.MenuCategories(s.db)
	data["flashes"] = common.Flashes(c)
	return data
}

func (s *SiteModule) static(view, title string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, view, s.page(c, gin.H{"title": title}))
	}
}

func (s *SiteModule) authors(c *gin.Context) {
	var users []models.User
	if err := s.db.Order("first_name, last_name").Find(&users).Error; err != nil {
		log.Printf("Error loading authors: %v", err)
		c.HTML(http.StatusInternalServerError, "error.html", s.page(c, gin.H{
			"error": "Error loading authors",
		}))
		return
	}

	c.HTML(http.StatusOK, "author_detail.html", s.page(c, gin.H{
		"title":   "Authors",
		"authors": users,
	}))
}

// likeEscaper makes LIKE wildcards in a search term match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func (s *SiteModule) searchForm(c *gin.Context) {
	c.HTML(http.StatusOK, "search.html", s.page(c, gin.H{"title": "Search"}))
}

func (s *SiteModule) search(c *gin.Context) {
	term := strings.TrimSpace(c.PostForm("search"))
	modelType := c.DefaultPostForm("model_type", modelBlog)
	if term == "" || (modelType != modelBlog && modelType != modelQuestion) {
		c.Redirect(http.StatusFound, "/")
		return
	}

	like := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
	number := common.ParsePage(c.DefaultPostForm("page", c.Query("page")))
	data := gin.H{
		"title":      "Search",
		"search":     term,
		"model_type": modelType,
	}

	var err error
	switch modelType {
	case modelBlog:
		data["blogs"], err = common.Paginate[models.Blog](
			s.db.Model(&models.Blog{}).
				Where("status = ?", models.StatusPublished).
				Where(`LOWER(title) LIKE ? ESCAPE '\' OR LOWER(body) LIKE ? ESCAPE '\'`, like, like).
				Order("created_at DESC"),
			number, searchPerPage)
	case modelQuestion:
		data["questions"], err = common.Paginate[models.Question](
			s.db.Model(&models.Question{}).
				Where(`LOWER(question) LIKE ? ESCAPE '\' OR LOWER(explanation) LIKE ? ESCAPE '\' OR `+
					`LOWER(option1) LIKE ? ESCAPE '\' OR LOWER(option2) LIKE ? ESCAPE '\' OR `+
					`LOWER(option3) LIKE ? ESCAPE '\' OR LOWER(option4) LIKE ? ESCAPE '\'`,
					like, like, like, like, like, like).
				Order("id DESC"),
			number, searchPerPage)
	}
	if err != nil {
		log.Printf("Error searching %ss for %q: %v", modelType, term, err)
		c.HTML(http.StatusInternalServerError, "error.html", s.page(c, gin.H{
			"error": "Search failed",
		}))
		return
	}

	c.HTML(http.StatusOK, "search.html", s.page(c, data))
}

type contactForm struct {
	Name    string `form:"name" binding:"required,max=100"`
	Phone   string `form:"phone" binding:"required,max=20"`
	Email   string `form:"email" binding:"required,email"`
	Subject string `form:"subject" binding:"required,max=200"`
	Message string `form:"message" binding:"required"`
}

func (s *SiteModule) contactForm(c *gin.Context) {
	c.HTML(http.StatusOK, "contact.html", s.page(c, gin.H{"title": "Contact us"}))
}

func (s *SiteModule) contact(c *gin.Context) {
	var form contactForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusBadRequest, "contact.html", s.page(c, gin.H{
			"title": "Contact us",
			"form":  form,
			"error": "Please fill in every field with a valid value",
		}))
		return
	}

	var existing int64
	if err := s.db.Model(&models.ContactRequest{}).
		Where("phone = ? OR email = ?", form.Phone, form.Email).
		Count(&existing).Error; err != nil {
		log.Printf("Error checking contact request: %v", err)
	}
	if existing > 0 {
		c.HTML(http.StatusBadRequest, "contact.html", s.page(c, gin.H{
			"title": "Contact us",
			"form":  form,
			"error": "A request with this phone number or email already exists",
		}))
		return
	}

	req := &models.ContactRequest{
		Name:    form.Name,
		Phone:   form.Phone,
		Email:   form.Email,
		Subject: form.Subject,
		Message: form.Message,
		Status:  models.ContactNew,
	}
	if err := s.db.Create(req).Error; err != nil {
		log.Printf("Error saving contact request: %v", err)
		c.HTML(http.StatusBadRequest, "contact.html", s.page(c, gin.H{
			"title": "Contact us",
			"form":  form,
			"error": "Your request could not be saved",
		}))
		return
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyContactRequest(req); err != nil {
			log.Printf("Error sending contact notification: %v", err)
		}
	}

	common.AddFlash(c, "Your query has been submitted successfully.")
	c.Redirect(http.StatusFound, "/")
}

type feedbackForm struct {
	OverallExperience    string `form:"overall_experience" binding:"omitempty,oneof=1 2 3 4 5"`
	ContentQuality       string `form:"content_quality" binding:"omitempty,oneof=1 2 3 4 5"`
	DesignUsability      string `form:"design_usability" binding:"omitempty,oneof=1 2 3 4 5"`
	EncounteredAnyIssues string `form:"encountered_any_issues" binding:"omitempty,oneof=1 2 3 4 5"`
	MostEnjoyableThing   string `form:"most_enjoyable_thing"`
	Suggestions          string `form:"suggestions"`
	DescriptionOfIssue   string `form:"description_of_issue"`
	AdditionalComment    string `form:"additional_comment"`
}

func (s *SiteModule) feedbackForm(c *gin.Context) {
	c.HTML(http.StatusOK, "feedback.html", s.page(c, gin.H{
		"title":   "Feedback",
		"ratings": []string{"1", "2", "3", "4", "5"},
	}))
}

func (s *SiteModule) feedback(c *gin.Context) {
	var form feedbackForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusBadRequest, "feedback.html", s.page(c, gin.H{
			"title":   "Feedback",
			"ratings": []string{"1", "2", "3", "4", "5"},
			"form":    form,
			"error":   "Ratings must be between 1 and 5",
		}))
		return
	}

	fb := &models.Feedback{
		OverallExperience:    form.OverallExperience,
		ContentQuality:       form.ContentQuality,
		DesignUsability:      form.DesignUsability,
		EncounteredAnyIssues: form.EncounteredAnyIssues,
		MostEnjoyableThing:   form.MostEnjoyableThing,
		Suggestions:          form.Suggestions,
		DescriptionOfIssue:   form.DescriptionOfIssue,
		AdditionalComment:    form.AdditionalComment,
	}
	if err := s.db.Create(fb).Error; err != nil {
		log.Printf("Error saving feedback: %v", err)
		c.HTML(http.StatusBadRequest, "feedback.html", s.page(c, gin.H{
			"title":   "Feedback",
			"ratings": []string{"1", "2", "3", "4", "5"},
			"form":    form,
			"error":   "Your feedback could not be saved",
		}))
		return
	}

	common.AddFlash(c, "Thank you for your feedback!")
	c.Redirect(http.StatusFound, "/")
}

func (s *SiteModule) sitemap(c *gin.Context) {
	domain := s.domain
	if domain == "" {
		domain = "http://localhost:8080"
	}

	var sitemap strings.Builder
	sitemap.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	sitemap.WriteString("\n")
	sitemap.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	sitemap.WriteString("\n")

	writeURL := func(path, lastmod, changefreq, priority string) {
		sitemap.WriteString("  <url>\n")
		sitemap.WriteString("    <loc>" + domain + path + "</loc>\n")
		if lastmod != "" {
			sitemap.WriteString("    <lastmod>" + lastmod + "</lastmod>\n")
		}
		sitemap.WriteString("    <changefreq>" + changefreq + "</changefreq>\n")
		sitemap.WriteString("    <priority>" + priority + "</priority>\n")
		sitemap.WriteString("  </url>\n")
	}

	writeURL("/", "", "daily", "1.0")
	writeURL("/all-test-series/", "", "weekly", "0.8")
	writeURL("/all-sub-category-test/", "", "weekly", "0.8")
	writeURL("/about/", "", "yearly", "0.3")
	writeURL("/contact/", "", "yearly", "0.3")

	var blogs []models.Blog
	if err := s.db.Where("status = ?", models.StatusPublished).Order("created_at DESC").Find(&blogs).Error; err != nil {
		log.Printf("Error loading blogs for sitemap: %v", err)
	}
	for _, blog := range blogs {
		writeURL("/post/"+blog.Slug+"/", blog.UpdatedAt.Format(time.RFC3339), "monthly", "0.6")
	}

	var categories []models.Category
	s.db.Order("name").Find(&categories)
	for _, category := range categories {
		writeURL("/category/"+category.Slug+"/", "", "weekly", "0.5")
		writeURL("/category-wise-question/"+category.Slug+"/", "", "weekly", "0.5")
	}

	var subCategories []models.SubCategory
	s.db.Order("name").Find(&subCategories)
	for _, sub := range subCategories {
		writeURL("/sub-category-wise-question/"+sub.Slug+"/", "", "weekly", "0.4")
	}

	var purposes []models.Purpose
	s.db.Order("title").Find(&purposes)
	for _, purpose := range purposes {
		writeURL("/purpose-wise-question/"+purpose.Slug+"/", "", "weekly", "0.4")
	}

	sitemap.WriteString("</urlset>\n")

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.String(http.StatusOK, sitemap.String())
}
