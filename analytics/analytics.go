package analytics

import (
	"crypto/sha256"
	"encoding/hex"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	visitorCookie = "ramsblog_visitor_id"
	visitThrottle = 30 * time.Minute
	visitorMaxAge = 60 * 60 * 24 * 365 * 2
)

// BlogVisit is one counted visit to a blog post.
type BlogVisit struct {
	ID        uint      `gorm:"primary_key;autoIncrement"`
	BlogID    uint      `gorm:"not null;index"`
	CookieID  string    `gorm:"not null;index"`
	IP        string    `gorm:"not null"`
	Language  *string
	Browser   *string
	CreatedAt time.Time `gorm:"index"`
}

type AnalyticsModule struct {
	db    *gorm.DB
	async bool
}

// NewAnalyticsModule returns nil when db is nil; a nil module is a no-op.
func NewAnalyticsModule(db *gorm.DB) *AnalyticsModule {
	if db == nil {
		log.Println("Analytics DB is nil, analytics will be disabled")
		return nil
	}
	return &AnalyticsModule{db: db, async: true}
}

// TrackVisit records a visit to blogID unless the same visitor was already
// counted for it within the last 30 minutes.
func (a *AnalyticsModule) TrackVisit(c *gin.Context, blogID uint) {
	if a == nil || a.db == nil {
		return
	}

	cookieID := a.getOrCreateCookieID(c)

	var recent BlogVisit
	err := a.db.Where("cookie_id = ? AND blog_id = ? AND created_at > ?",
		cookieID, blogID, time.Now().Add(-visitThrottle)).
		First(&recent).Error
	if err == nil {
		return
	}

	visit := BlogVisit{
		BlogID:    blogID,
		CookieID:  cookieID,
		IP:        getClientIP(c),
		Language:  extractLanguage(c.GetHeader("Accept-Language")),
		Browser:   extractBrowser(c.Request.UserAgent()),
		CreatedAt: time.Now(),
	}

	save := func() {
		if err := a.db.Create(&visit).Error; err != nil {
			log.Printf("Error saving blog visit: %v", err)
		}
	}
	if a.async {
		go save()
		return
	}
	save()
}

func (a *AnalyticsModule) getOrCreateCookieID(c *gin.Context) string {
	if cookie, err := c.Cookie(visitorCookie); err == nil && cookie != "" {
		return cookie
	}

	data := time.Now().String() + c.ClientIP() + c.Request.UserAgent()
	hash := sha256.Sum256([]byte(data))
	cookieID := hex.EncodeToString(hash[:])

	c.SetCookie(visitorCookie, cookieID, visitorMaxAge, "/", "", false, true)
	return cookieID
}

func getClientIP(c *gin.Context) string {
	if ip := c.GetHeader("X-Forwarded-For"); ip != "" {
		return strings.TrimSpace(strings.Split(ip, ",")[0])
	}
	if ip := c.GetHeader("X-Real-IP"); ip != "" {
		return ip
	}
	return c.ClientIP()
}

func extractBrowser(userAgent string) *string {
	if userAgent == "" {
		return nil
	}

	ua := strings.ToLower(userAgent)
	var browser string

	// more specific engines first
	switch {
	case strings.Contains(ua, "edg"):
		browser = "Edge"
	case strings.Contains(ua, "opr") || strings.Contains(ua, "opera"):
		browser = "Opera"
	case strings.Contains(ua, "chrome"):
		browser = "Chrome"
	case strings.Contains(ua, "safari"):
		browser = "Safari"
	case strings.Contains(ua, "firefox"):
		browser = "Firefox"
	default:
		browser = "Other"
	}

	return &browser
}

// extractLanguage keeps the first tag of an Accept-Language header.
func extractLanguage(acceptLang string) *string {
	if acceptLang == "" {
		return nil
	}
	lang := strings.TrimSpace(strings.Split(acceptLang, ",")[0])
	lang = strings.Split(lang, ";")[0]
	return &lang
}

// DayVisits is the visit count of one calendar day.
type DayVisits struct {
	Date  string
	Count int64
}

type PostVisits struct {
	BlogID    uint
	BlogTitle string
	Count     int64
}

// VisitCount is the number of counted visits of one post.
func (a *AnalyticsModule) VisitCount(blogID uint) int64 {
	if a == nil || a.db == nil {
		return 0
	}

	var count int64
	a.db.Model(&BlogVisit{}).Where("blog_id = ?", blogID).Count(&count)
	return count
}

// TopPosts returns the most visited posts of the last days, titles filled in.
func (a *AnalyticsModule) TopPosts(days, limit int) []PostVisits {
	if a == nil || a.db == nil {
		return []PostVisits{}
	}

	var results []PostVisits
	a.db.Model(&BlogVisit{}).
		Select("blog_visits.blog_id as blog_id, blogs.title as blog_title, COUNT(*) as count").
		Joins("LEFT JOIN blogs ON blogs.id = blog_visits.blog_id").
		Where("blog_visits.created_at >= ?", time.Now().AddDate(0, 0, -days)).
		Group("blog_visits.blog_id, blogs.title").
		Order("count DESC").
		Limit(limit).
		Scan(&results)

	return results
}

// VisitsByDay returns one entry per day for the last days, oldest first,
// with zero counts for days without visits.
func (a *AnalyticsModule) VisitsByDay(days int) []DayVisits {
	if a == nil || a.db == nil || days <= 0 {
		return []DayVisits{}
	}

	now := time.Now()
	var results []DayVisits
	a.db.Model(&BlogVisit{}).
		Select("DATE(created_at) as date, COUNT(*) as count").
		Where("created_at >= ?", now.AddDate(0, 0, -days)).
		Group("DATE(created_at)").
		Scan(&results)

	counts := make(map[string]int64, len(results))
	for _, r := range results {
		counts[r.Date] = r.Count
	}

	dayVisits := make([]DayVisits, days)
	for i := range dayVisits {
		date := now.AddDate(0, 0, -(days - 1 - i)).Format("2006-01-02")
		dayVisits[i] = DayVisits{Date: date, Count: counts[date]}
	}
	return dayVisits
}
